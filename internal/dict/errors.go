package dict

import "errors"

// Conversion errors.
var (
	// ErrSourceNotFound is returned when the source dictionary file
	// does not exist or cannot be read.
	ErrSourceNotFound = errors.New("source dictionary not found")

	// ErrMalformedDictionary is returned when the source file is not a
	// JSON document with version, dictDate, and a words sequence.
	ErrMalformedDictionary = errors.New("malformed source dictionary")
)
