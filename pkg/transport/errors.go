package transport

import "errors"

// ErrNotRunning is returned by any call made before Start or after Stop.
var ErrNotRunning = errors.New("transport: not running")

// ErrTimeout is returned when the HOST does not respond within the
// request's deadline (§5 default 5s).
var ErrTimeout = errors.New("transport: timeout waiting for HOST response")

// ErrHostRejected wraps a HOST-reported failure for a request.
var ErrHostRejected = errors.New("transport: HOST rejected request")
