package generators

import "errors"

var (
	// ErrConfiguration marks fatal configuration errors: unknown generator
	// types, unsupported parameter combinations, malformed shapes files.
	ErrConfiguration = errors.New("invalid anchor generator configuration")

	// ErrContract marks call-time contract violations, e.g. a feature map
	// shape list whose length does not match the configured level count.
	ErrContract = errors.New("anchor generator contract violation")
)
