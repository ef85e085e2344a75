package erp

import "fmt"

// TransportError reports a call that did not produce a JSON-RPC response:
// network failures, timeouts, non-2xx statuses and undecodable bodies.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ERP HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("ERP transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is an application error reported in the JSON-RPC envelope.
type RemoteError struct {
	Code    int
	Name    string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

const (
	accessDeniedName   = "odoo.exceptions.AccessDenied"
	sessionExpiredName = "odoo.http.SessionExpiredException"
)

// sessionRejected reports whether the ERP refused the cached credentials
// rather than the call itself.
func (e *RemoteError) sessionRejected() bool {
	return e.Name == accessDeniedName || e.Name == sessionExpiredName
}
