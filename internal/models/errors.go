package models

import "fmt"

// ValidationError reports a malformed request field. Requests failing
// validation are rejected before any side effect.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigurationError reports a missing or unusable piece of external
// configuration, such as absent payment gateway credentials. It is fatal
// for the operation and is surfaced before any external call.
type ConfigurationError struct {
	Component string
	Message   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Component, e.Message)
}

// PaymentDeclinedError is the expected business outcome of a declined
// charge. The order is not persisted.
type PaymentDeclinedError struct {
	Reason string
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Reason)
}

// PersistenceError reports a failed order write. When TransactionID is
// set, a charge succeeded without a corresponding order row and the
// transaction was handed to the reconciliation log.
type PersistenceError struct {
	Op            string
	TransactionID string
	Err           error
}

func (e *PersistenceError) Error() string {
	if e.TransactionID != "" {
		return fmt.Sprintf("%s: %v (charged transaction %s needs reconciliation)", e.Op, e.Err, e.TransactionID)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
