package api

import "fmt"

// StatusError is returned for any non-2xx HTTP response. No status code gets
// special handling beyond being surfaced.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

// ServerError is a business-level failure: the server answered 200 with
// {"success": false} and an error message.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
