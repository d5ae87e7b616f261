package broker

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownBroker = errors.New("unknown broker")
	ErrOrderNotFound = errors.New("order not found")
)

// RejectionError is a business refusal by the broker. Never retried.
type RejectionError struct {
	Broker string
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s rejected order: %s", e.Broker, e.Reason)
}

// TransportError is a transport-level failure (timeout, connection
// reset) that survived the adapter's bounded retries.
type TransportError struct {
	Broker string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s unreachable: %v", e.Broker, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
