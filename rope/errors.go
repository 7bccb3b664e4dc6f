package rope

import "errors"

var (
	ErrInvalidConfig  = errors.New("rope: invalid config")
	ErrNotInitialized = errors.New("rope: simulator not initialized")
)
