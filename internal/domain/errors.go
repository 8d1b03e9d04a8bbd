package domain

import "errors"

// ErrUpstreamUnavailable marks the imagery platform as unreachable or
// misconfigured. Fatal to the whole run, unlike per-wreck and per-event
// failures which are contained.
var ErrUpstreamUnavailable = errors.New("imagery platform unavailable")
