package domain

import "errors"

var (
	// ErrValidation marks invalid caller input, rejected before any provider
	// call is attempted.
	ErrValidation = errors.New("validation failed")
	// ErrClassification marks a failed task analysis. Always recovered
	// locally into the default task descriptor.
	ErrClassification = errors.New("classification failed")
	// ErrSelection marks a failed model pick. Always recovered locally into
	// the fallback recommendation.
	ErrSelection = errors.New("selection failed")
	// ErrProviderUnavailable marks a provider whose credential is not
	// configured.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderCall marks a network or HTTP failure against a configured
	// provider.
	ErrProviderCall = errors.New("provider call failed")
	// ErrPollingTimeout marks a video job that never completed within the
	// polling budget.
	ErrPollingTimeout = errors.New("polling timeout")
)
