package transport

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/scenesync/scenesync/internal/core/messages"
	"github.com/scenesync/scenesync/internal/core/observability/log"
)

var _ Node = (*WebSocketNode)(nil)

// WebSocketNode is a client Node speaking the JSON envelope over a single
// websocket connection. A read pump dispatches inbound envelopes to
// subscribers; a write pump drains the outbound queue so Publish never
// blocks on the network.
type WebSocketNode struct {
	conn   *websocket.Conn
	opts   Options
	disp   *dispatcher
	out    chan []byte
	logger log.Log

	group  *errgroup.Group
	cancel context.CancelFunc
	closed atomic.Bool
}

// DialWebSocket connects to a websocket endpoint and starts the pumps.
func DialWebSocket(ctx context.Context, url string, opts Options, logger log.Log) (*WebSocketNode, error) {
	opts = opts.withDefaults()

	dialer := websocket.Dialer{
		HandshakeTimeout: opts.DialTimeout,
		ReadBufferSize:   opts.BufferSize,
		WriteBufferSize:  opts.BufferSize,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	pumpCtx, cancel := context.WithCancel(context.Background())
	group, pumpCtx := errgroup.WithContext(pumpCtx)

	n := &WebSocketNode{
		conn:   conn,
		opts:   opts,
		disp:   newDispatcher(),
		out:    make(chan []byte, opts.QueueSize),
		logger: logger.With(log.String("transport", "websocket")),
		group:  group,
		cancel: cancel,
	}

	group.Go(func() error { return n.readPump() })
	group.Go(func() error { return n.writePump(pumpCtx) })

	n.logger.Info("connected", log.String("url", url))
	return n, nil
}

func (n *WebSocketNode) Subscribe(topic string, h Handler) (Subscription, error) {
	if n.closed.Load() {
		return nil, ErrNodeClosed
	}
	if topic == "" {
		return nil, ErrTopicRequired
	}
	return n.disp.add(topic, h), nil
}

func (n *WebSocketNode) Publish(topic string, payload any) error {
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

	select {
	case n.out <- env:
		return nil
	default:
		return ErrQueueFull
	}
}

func (n *WebSocketNode) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return ErrNodeClosed
	}

	n.cancel()
	err := n.conn.Close()
	_ = n.group.Wait()
	n.disp.clear()
	if err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (n *WebSocketNode) readPump() error {
	for {
		if n.opts.ReadTimeout > 0 {
			_ = n.conn.SetReadDeadline(time.Now().Add(n.opts.ReadTimeout))
		}
		_, data, err := n.conn.ReadMessage()
		if err != nil {
			if n.closed.Load() {
				return nil
			}
			n.logger.Error("read failed", log.Err(err))
			return err
		}

		env, err := messages.DecodeEnvelope(data)
		if err != nil {
			n.logger.Warn("dropping undecodable frame", log.Err(err))
			continue
		}
		n.disp.dispatch(env.Topic, env.Payload)
	}
}

func (n *WebSocketNode) writePump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame := <-n.out:
			_ = n.conn.SetWriteDeadline(time.Now().Add(n.opts.WriteTimeout))
			if err := n.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				if n.closed.Load() {
					return nil
				}
				n.logger.Error("write failed", log.Err(err))
				return err
			}
		}
	}
}
