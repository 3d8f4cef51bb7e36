package transport

import "time"

// Options tunes a Node connection.
type Options struct {
	// Network settings
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Performance tuning
	BufferSize int
	QueueSize  int

	// MaxFrameSize caps the payload length an inbound length-prefixed
	// frame may declare. Larger frames are rejected before allocation.
	MaxFrameSize int

	// Security settings
	InsecureSkipVerify bool
}

// DefaultOptions returns the settings used when a field is left zero.
func DefaultOptions() Options {
	return Options{
		DialTimeout:  5 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Second,
		BufferSize:   4096,
		QueueSize:    256,
		MaxFrameSize: 1 << 20,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DialTimeout <= 0 {
		o.DialTimeout = def.DialTimeout
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = def.ReadTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = def.WriteTimeout
	}
	if o.BufferSize <= 0 {
		o.BufferSize = def.BufferSize
	}
	if o.QueueSize <= 0 {
		o.QueueSize = def.QueueSize
	}
	if o.MaxFrameSize <= 0 {
		o.MaxFrameSize = def.MaxFrameSize
	}
	return o
}
