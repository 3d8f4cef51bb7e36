package scene

import "errors"

var (
	ErrSceneClosed        = errors.New("scene is shut down")
	ErrAlreadyInitialized = errors.New("scene is already initialized")
)
