package transport

import "errors"

var (
	ErrNodeClosed    = errors.New("node is closed")
	ErrTopicRequired = errors.New("topic is required")
	ErrQueueFull     = errors.New("outbound queue is full")
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")
)
