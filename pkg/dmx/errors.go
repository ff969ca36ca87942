package dmx

import "errors"

// Sentinel decode errors. These mirror the taxonomy a DMX reader can hit
// before any PCF-level validation is even attempted.
var (
	ErrUnknownVersion    = errors.New("🚫 unknown dmx version magic")
	ErrUnknownAttribute  = errors.New("🚫 unknown attribute type code")
	ErrTruncated         = errors.New("✂️  truncated dmx stream")
	ErrUnterminatedCStr  = errors.New("🚫 unterminated NUL string")
	ErrSymbolOutOfRange  = errors.New("🚫 symbol index out of range")
	ErrElementOutOfRange = errors.New("🚫 element index out of range")
)
