package transport

import (
	"sync/atomic"

	"github.com/scenesync/scenesync/internal/core/messages"
)

var _ Node = (*Loopback)(nil)

// Loopback is an in-process Node. Publish delivers to local subscribers on
// the caller's goroutine. It backs tests and processes that embed authority
// and replica in the same binary.
type Loopback struct {
	disp   *dispatcher
	closed atomic.Bool
}

// NewLoopback creates an empty in-process node.
func NewLoopback() *Loopback {
	return &Loopback{disp: newDispatcher()}
}

func (n *Loopback) Subscribe(topic string, h Handler) (Subscription, error) {
	if n.closed.Load() {
		return nil, ErrNodeClosed
	}
	if topic == "" {
		return nil, ErrTopicRequired
	}
	return n.disp.add(topic, h), nil
}

func (n *Loopback) Publish(topic string, payload any) error {
	if n.closed.Load() {
		return ErrNodeClosed
	}
	if topic == "" {
		return ErrTopicRequired
	}

	env, err := messages.EncodeEnvelope(topic, payload)
	if err != nil {
		return err
	}
	decoded, err := messages.DecodeEnvelope(env)
	if err != nil {
		return err
	}

	n.disp.dispatch(decoded.Topic, decoded.Payload)
	return nil
}

func (n *Loopback) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return ErrNodeClosed
	}
	n.disp.clear()
	return nil
}
