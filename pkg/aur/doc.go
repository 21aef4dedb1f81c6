// Package aur is a client for the AUR RPC interface (version 5).
//
// The client is safe for concurrent use. Every request passes through a
// client-side rate limiter, transient faults (transport errors, 429 and 5xx
// responses) are retried with exponential backoff, and a circuit breaker
// turns a persistently failing endpoint into ErrUnreachable so callers can
// tell "one lookup failed" apart from "there is no network path at all".
package aur
