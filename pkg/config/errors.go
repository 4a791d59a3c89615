package config

import "errors"

var (
	ErrNilPointer    = errors.New("config target cannot be nil")
	ErrParsingConfig = errors.New("failed to parse configuration")
)
