// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across adapter/flow layers.
var (
	// ErrNotFound indicates the requested entity does not exist on the backend.
	ErrNotFound = errors.New("not found")

	// ErrMalformedResponse indicates the backend returned a body that matches
	// none of the known envelope shapes.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnauthorized indicates the backend rejected the access credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientBalance indicates the wallet cannot cover the product price.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNoSelection indicates a commit was attempted without a selected product.
	ErrNoSelection = errors.New("no product selected")

	// ErrBusy indicates a commit is already in flight for this flow.
	ErrBusy = errors.New("operation in flight")
)
