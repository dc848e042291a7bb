package errors

import "fmt"

var (
	ErrNotFound          = fmt.Errorf("participant not found")
	ErrAlreadyRegistered = fmt.Errorf("participant already registered")
	ErrAlreadyInSession  = fmt.Errorf("participant already in a session")
	ErrNoCandidate       = fmt.Errorf("no match candidate available")
	ErrWorkerPanic       = fmt.Errorf("worker panic")
)
