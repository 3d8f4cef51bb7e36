package concurrent

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShardedMap(t *testing.T) {
	t.Run("ShardedMap: basic operations", func(t *testing.T) {
		m := NewShardedMap[int](8)

		_, ok := m.Get("missing")
		require.False(t, ok)

		m.Set("a", 1)
		m.Set("b", 2)

		v, ok := m.Get("a")
		require.True(t, ok)
		require.Equal(t, 1, v)
		require.Equal(t, 2, m.Len())

		m.Set("a", 10)
		v, _ = m.Get("a")
		require.Equal(t, 10, v)
		require.Equal(t, 2, m.Len())

		require.True(t, m.Delete("a"))
		require.False(t, m.Delete("a"))
		require.Equal(t, 1, m.Len())

		m.Clear()
		require.Equal(t, 0, m.Len())
	})

	t.Run("ShardedMap: update inserts, replaces and deletes", func(t *testing.T) {
		m := NewShardedMap[[]string](0)

		m.Update("topic", func(current []string, ok bool) ([]string, bool) {
			require.False(t, ok)
			return append(current, "first"), true
		})
		m.Update("topic", func(current []string, ok bool) ([]string, bool) {
			require.True(t, ok)
			return append(current, "second"), true
		})

		v, ok := m.Get("topic")
		require.True(t, ok)
		require.Equal(t, []string{"first", "second"}, v)

		m.Update("topic", func(_ []string, _ bool) ([]string, bool) {
			return nil, false
		})
		_, ok = m.Get("topic")
		require.False(t, ok)
	})

	t.Run("ShardedMap: range visits every entry", func(t *testing.T) {
		m := NewShardedMap[int](4)
		for i := 0; i < 20; i++ {
			m.Set(fmt.Sprintf("key-%d", i), i)
		}

		seen := make(map[string]int)
		m.Range(func(key string, value int) bool {
			seen[key] = value
			return true
		})
		require.Len(t, seen, 20)
	})

	t.Run("ShardedMap: concurrent writers", func(t *testing.T) {
		m := NewShardedMap[int](16)

		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					m.Set(fmt.Sprintf("w%d-k%d", w, i), i)
				}
			}(w)
		}
		wg.Wait()

		require.Equal(t, 800, m.Len())
	})
}
