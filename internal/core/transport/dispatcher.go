package transport

import (
	"github.com/google/uuid"

	"github.com/scenesync/scenesync/pkg/concurrent"
)

// dispatcher fans incoming envelopes out to the handlers subscribed to their
// topic. The subscription table is sharded by topic; handler maps are
// replaced copy-on-write so dispatch can iterate a snapshot without holding
// any shard lock while handlers run.
type dispatcher struct {
	subs *concurrent.ShardedMap[map[string]*subscription]
}

type subscription struct {
	id     string
	topic  string
	h      Handler
	cancel func()
}

func (s *subscription) ID() string    { return s.id }
func (s *subscription) Topic() string { return s.topic }
func (s *subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

func newDispatcher() *dispatcher {
	return &dispatcher{
		subs: concurrent.NewShardedMap[map[string]*subscription](0),
	}
}

func (d *dispatcher) add(topic string, h Handler) *subscription {
	s := &subscription{
		id:    uuid.NewString(),
		topic: topic,
		h:     h,
	}
	s.cancel = func() { d.remove(topic, s.id) }

	d.subs.Update(topic, func(current map[string]*subscription, _ bool) (map[string]*subscription, bool) {
		next := make(map[string]*subscription, len(current)+1)
		for id, sub := range current {
			next[id] = sub
		}
		next[s.id] = s
		return next, true
	})
	return s
}

func (d *dispatcher) remove(topic, id string) {
	d.subs.Update(topic, func(current map[string]*subscription, ok bool) (map[string]*subscription, bool) {
		if !ok {
			return nil, false
		}
		next := make(map[string]*subscription, len(current))
		for subID, sub := range current {
			if subID != id {
				next[subID] = sub
			}
		}
		return next, len(next) > 0
	})
}

// dispatch delivers payload to every handler on topic and returns how many
// handlers ran.
func (d *dispatcher) dispatch(topic string, payload []byte) int {
	handlers, ok := d.subs.Get(topic)
	if !ok {
		return 0
	}
	for _, s := range handlers {
		s.h(payload)
	}
	return len(handlers)
}

func (d *dispatcher) clear() {
	d.subs.Clear()
}
