package messages

import "errors"

var (
	ErrMissingID    = errors.New("message has no identifier")
	ErrMissingTopic = errors.New("envelope has no topic")
	ErrEmptyPayload = errors.New("envelope has no payload")
)
