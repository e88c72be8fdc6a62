package bulk

import "errors"

// Bulk domain errors
var (
	ErrRunNotFound    = errors.New("bulk: sync run not found")
	ErrRunInterrupted = errors.New("bulk: run interrupted by process restart")
)
