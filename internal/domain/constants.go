package domain

import "time"

const (
	// MaxTextSize is the default maximum size for a shared text (64 KB).
	MaxTextSize = 64 * 1024

	// MaxRequestBodySize is the maximum allowed request body size.
	// Set slightly larger than MaxTextSize to account for JSON overhead.
	MaxRequestBodySize = MaxTextSize + 1024

	// DefaultTTL is how long an unread text lives in the store.
	DefaultTTL = 24 * time.Hour

	// DefaultCodeLength is the number of characters in a generated code.
	DefaultCodeLength = 7

	// URLAlphabet is the nanoid URL-safe alphabet.
	URLAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)
