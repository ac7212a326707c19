// Package query turns a validated user request into calls against the
// wordlist index, the loaded WordNet, and Morphy, shaping the result
// into the paged DTOs the HTTP layer serializes. It is pure glue:
// validation lives here, but none of the domain algorithms do.
package query

import "errors"

// ErrInvalidInput is the sentinel every validation failure wraps. The
// HTTP layer maps errors.Is(err, ErrInvalidInput) to a 400 response,
// ErrNotAvailable to 503, and everything else to 500.
var ErrInvalidInput = errors.New("query: invalid input")

// ErrNotAvailable means a WordNet-backed query ran with no WordNet
// loaded — either the process started without one configured, or (in
// principle) a request reached the service before loading finished.
// Loading is synchronous before the HTTP layer starts accepting
// connections, so in practice this is the unconfigured case, but the
// service checks for it rather than letting a nil-pointer panic reach
// a handler.
var ErrNotAvailable = errors.New("query: wordnet not available")
