package domain

import "errors"

var (
	// ErrNotConnected is returned when an operation requires an active connection
	ErrNotConnected = errors.New("not connected to Telegram")

	// ErrAuthenticationFailed is returned when authentication fails
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidChannelRef is returned when a channel reference is malformed
	ErrInvalidChannelRef = errors.New("invalid channel reference")

	// ErrChannelResolution is returned when a channel reference cannot be
	// resolved to an addressable peer
	ErrChannelResolution = errors.New("channel resolution failed")
)
