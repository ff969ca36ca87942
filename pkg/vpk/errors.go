package vpk

import "errors"

// Sentinel errors for C8 (read/patch) and C9 (write).
var (
	ErrUnknownSignature = errors.New("🚫 not a vpk directory file (bad signature)")
	ErrUnsupportedVersion = errors.New("🚫 unsupported vpk version")
	ErrTruncated        = errors.New("✂️  truncated vpk stream")
	ErrNotFound         = errors.New("🔍 file not found in vpk")
	ErrHasPreloadData   = errors.New("🚫 can't patch a file that has preload data")
	ErrInputTooBig      = errors.New("🚫 input is larger than the file's slot in the archive")
	ErrSourceNotADir    = errors.New("🚫 vpk write source must be a directory")
)
