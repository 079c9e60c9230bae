package gateway

import "fmt"

// ErrorKind classifies why a venue call did not succeed. The core never
// branches on the kind beyond logging; it exists so operators can tell a
// stalled venue from a misbehaving one.
type ErrorKind int

const (
	KindTimeout ErrorKind = iota
	KindTransport
	KindMalformed
	KindVenue
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed_response"
	case KindVenue:
		return "venue_error"
	default:
		return "unknown"
	}
}

// ClientError is the typed failure for any venue call.
type ClientError struct {
	Kind       ErrorKind
	Op         string // place / order_info / cancel
	StatusCode int    // HTTP status when one was received
	Messages   []string
	Err        error
}

func (e *ClientError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Messages)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s (http %d)", e.Op, e.Kind, e.StatusCode)
}

func (e *ClientError) Unwrap() error { return e.Err }
