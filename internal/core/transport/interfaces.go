package transport

// Handler processes the raw payload of a single message delivered on a
// topic. Handlers run on transport goroutines and must not block; payload
// decoding and decode failures belong to the subscriber.
type Handler func(payload []byte)

// Subscription represents one registered handler on a topic.
type Subscription interface {
	ID() string
	Topic() string
	Cancel()
}

// Node is the pub/sub endpoint a scene replica talks to. Delivery is
// at-most-once: messages may be dropped or arrive out of order across
// topics, but are never corrupted.
type Node interface {
	Subscribe(topic string, h Handler) (Subscription, error)
	Publish(topic string, payload any) error
	Close() error
}
