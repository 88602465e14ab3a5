package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNilForm is returned when the filler is built without a form.
	ErrNilForm = errors.New("prompt: form is nil")
)
