// Package errs defines the error kinds of spec.md §7 as concrete Go
// types, so callers can distinguish them with errors.As instead of
// string-matching messages.
package errs

import "fmt"

// UnsupportedFormatError means the classifier has no rule for an
// extension. It never fails a file — the caller treats it as rich-media.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Extension)
}

// TranscodeFailedError wraps any transcoder failure: timeout, non-zero
// exit, or missing output file.
type TranscodeFailedError struct {
	Engine string
	Input  string
	Reason string
	Err    error
}

func (e *TranscodeFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcode %s via %s: %s: %v", e.Input, e.Engine, e.Reason, e.Err)
	}
	return fmt.Sprintf("transcode %s via %s: %s", e.Input, e.Engine, e.Reason)
}

func (e *TranscodeFailedError) Unwrap() error { return e.Err }

// FileIOError covers upload-read and task-directory-write failures.
type FileIOError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("file io: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileIOError) Unwrap() error { return e.Err }

// InternalError is the catch-all for a recovered panic or any error kind
// not otherwise classified; the message always includes "internal" so a
// log line is recognisable even without a type assertion.
type InternalError struct {
	Context string
	Err     error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error (%s): %v", e.Context, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }
