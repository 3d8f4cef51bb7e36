package scene

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMailbox(t *testing.T) {
	t.Run("Mailbox: drain returns FIFO batch and empties", func(t *testing.T) {
		m := NewMailbox[int]()
		m.Enqueue(1)
		m.Enqueue(2)
		m.Enqueue(3)
		require.Equal(t, 3, m.Len())

		require.Equal(t, []int{1, 2, 3}, m.Drain())
		require.Equal(t, 0, m.Len())
		require.Empty(t, m.Drain())
	})

	t.Run("Mailbox: messages after a drain land in the next batch", func(t *testing.T) {
		m := NewMailbox[string]()
		m.Enqueue("a")
		require.Equal(t, []string{"a"}, m.Drain())

		m.Enqueue("b")
		m.Enqueue("c")
		require.Equal(t, []string{"b", "c"}, m.Drain())
	})

	t.Run("Mailbox: concurrent producers never lose messages", func(t *testing.T) {
		m := NewMailbox[int]()

		const producers = 8
		const perProducer = 500

		var wg sync.WaitGroup
		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					m.Enqueue(i)
				}
			}()
		}
		wg.Wait()

		require.Len(t, m.Drain(), producers*perProducer)
	})

	t.Run("Mailbox: clear discards pending", func(t *testing.T) {
		m := NewMailbox[int]()
		m.Enqueue(1)
		m.Clear()
		require.Empty(t, m.Drain())
	})
}
