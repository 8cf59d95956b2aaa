package entity

import "errors"

var (
	// Event store errors
	ErrEventsUnavailable = errors.New("events could not be loaded")
	ErrEventNotFound     = errors.New("event not found")

	// Registration workflow errors
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationClosed   = errors.New("registration is open only for upcoming events")
	ErrInvalidPrice         = errors.New("event price is not a valid payment amount")
	ErrCheckoutUnavailable  = errors.New("payment checkout could not be opened")
	ErrSessionNotFound      = errors.New("checkout session not found")
	ErrInvalidSignature     = errors.New("payment signature verification failed")

	// ErrRegistrationNotRecorded is raised after a confirmed payment when
	// the registration row could not be written. The payment itself
	// succeeded, so the message must not claim the registration failed
	// outright.
	ErrRegistrationNotRecorded = errors.New("payment received, registration record pending")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
