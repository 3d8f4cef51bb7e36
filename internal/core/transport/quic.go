package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/quic-go/quic-go"
	"golang.org/x/sync/errgroup"

	"github.com/scenesync/scenesync/internal/core/messages"
	"github.com/scenesync/scenesync/internal/core/observability/log"
)

const quicNextProto = "scenesync-quic"

var _ Node = (*QUICNode)(nil)

// QUICNode is a client Node over a QUIC connection. Each message travels on
// its own unidirectional-use stream with 4-byte length-prefix framing.
type QUICNode struct {
	conn   *quic.Conn
	opts   Options
	disp   *dispatcher
	logger log.Log

	group  *errgroup.Group
	cancel context.CancelFunc
	closed atomic.Bool
}

// DialQUIC connects to a QUIC endpoint and starts the stream accept loop.
func DialQUIC(ctx context.Context, address string, opts Options, logger log.Log) (*QUICNode, error) {
	opts = opts.withDefaults()

	tlsConfig := &tls.Config{
		InsecureSkipVerify: opts.InsecureSkipVerify,
		NextProtos:         []string{quicNextProto},
	}

	dialCtx, cancelDial := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancelDial()

	conn, err := quic.DialAddr(dialCtx, address, tlsConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", address, err)
	}

	acceptCtx, cancel := context.WithCancel(context.Background())
	group, acceptCtx := errgroup.WithContext(acceptCtx)

	n := &QUICNode{
		conn:   conn,
		opts:   opts,
		disp:   newDispatcher(),
		logger: logger.With(log.String("transport", "quic")),
		group:  group,
		cancel: cancel,
	}

	group.Go(func() error { return n.acceptLoop(acceptCtx) })

	n.logger.Info("connected", log.String("address", address))
	return n, nil
}

func (n *QUICNode) Subscribe(topic string, h Handler) (Subscription, error) {
	if n.closed.Load() {
		return nil, ErrNodeClosed
	}
	if topic == "" {
		return nil, ErrTopicRequired
	}
	return n.disp.add(topic, h), nil
}

func (n *QUICNode) Publish(topic string, payload any) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), n.opts.WriteTimeout)
	defer cancel()

	stream, err := n.conn.OpenStreamSync(ctx)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer stream.Close()

	if err = writeFrame(stream, env); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

func (n *QUICNode) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return ErrNodeClosed
	}

	n.cancel()
	err := n.conn.CloseWithError(0, "node closed")
	_ = n.group.Wait()
	n.disp.clear()
	if err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (n *QUICNode) acceptLoop(ctx context.Context) error {
	for {
		stream, err := n.conn.AcceptStream(ctx)
		if err != nil {
			if n.closed.Load() || ctx.Err() != nil {
				return nil
			}
			n.logger.Error("accept failed", log.Err(err))
			return err
		}

		data, err := readFrame(stream, n.opts.MaxFrameSize)
		if err != nil {
			n.logger.Warn("dropping unreadable stream", log.Err(err))
			continue
		}

		env, err := messages.DecodeEnvelope(data)
		if err != nil {
			n.logger.Warn("dropping undecodable frame", log.Err(err))
			continue
		}
		n.disp.dispatch(env.Topic, env.Payload)
	}
}

func writeFrame(w io.Writer, data []byte) error {
	length := len(data)
	header := []byte{
		byte(length >> 24),
		byte(length >> 16),
		byte(length >> 8),
		byte(length),
	}
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// readFrame reads one length-prefixed frame. The declared length is
// validated against max before any payload allocation, so a hostile peer
// cannot force a multi-gigabyte buffer with a forged header.
func readFrame(r io.Reader, max int) ([]byte, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read frame length: %w", err)
	}
	length := int(header[0])<<24 | int(header[1])<<16 | int(header[2])<<8 | int(header[3])
	if length > max {
		return nil, fmt.Errorf("%w: %d bytes declared, limit %d", ErrFrameTooLarge, length, max)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read frame data: %w", err)
	}
	return data, nil
}
