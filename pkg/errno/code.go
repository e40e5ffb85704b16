package errno

import (
	"errors"
	"net/http"
)

// code=0 success
// code=4xx client request errors
// code=5xx server errors
// code=2xxxx pipeline errors

type Errno struct {
	Code    int
	Message string
}

// Error implements error
func (e *Errno) Error() string {
	return e.Message
}

// HTTPStatus maps the code to the status the API answers with. Pipeline
// errors are all reported as 500, the same as any other server-side failure.
func (e *Errno) HTTPStatus() int {
	switch {
	case e.Code == 0:
		return http.StatusOK
	case e.Code >= 400 && e.Code < 600:
		return e.Code
	default:
		return http.StatusInternalServerError
	}
}

var (
	OK = &Errno{Code: 0, Message: "Success"}

	ErrInvalidJSON         = &Errno{Code: 400, Message: "Invalid JSON in request body"}
	ErrMissingParam        = &Errno{Code: 400, Message: "Missing required field: video_url"}
	ErrUnauthorized        = &Errno{Code: 401, Message: "Unauthorized: Invalid or missing API key"}
	ErrNotFound            = &Errno{Code: 404, Message: "Not found"}
	ErrMethodNotAllowed    = &Errno{Code: 405, Message: "Method not allowed. Use POST."}
	ErrInternalServer      = &Errno{Code: 500, Message: "Internal server error"}
	ErrServerMisconfigured = &Errno{Code: 500, Message: "Server configuration error: API key not configured"}

	// pipeline
	ErrInvalidInput    = &Errno{Code: 20001, Message: "Invalid video URL"}
	ErrDownloadFailed  = &Errno{Code: 20002, Message: "Failed to download video"}
	ErrTranscodeFailed = &Errno{Code: 20003, Message: "Failed to convert video to HLS"}
	ErrIOFailure       = &Errno{Code: 20004, Message: "Storage operation failed"}
)

// Error is an Errno raised with a concrete cause. errors.Is matches it against
// its Errno, errors.As and errors.Unwrap reach the cause.
type Error struct {
	*Errno
	Cause error
}

// Wrap attaches cause to the code. A nil cause yields the bare code.
func (e *Errno) Wrap(cause error) *Error {
	return &Error{Errno: e, Cause: cause}
}

// Error returns the code message; the cause is available via Detail.
func (e *Error) Error() string {
	return e.Errno.Message
}

// Detail returns "message: cause".
func (e *Error) Detail() string {
	if e.Cause == nil {
		return e.Errno.Message
	}
	return e.Errno.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Errno)
	return ok && t == e.Errno
}

// From extracts the Errno carried by err, falling back to ErrInternalServer.
func From(err error) *Errno {
	if err == nil {
		return OK
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Errno
	}
	var bare *Errno
	if errors.As(err, &bare) {
		return bare
	}
	return ErrInternalServer
}
