package config

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindMissingFile ErrorKind = iota
	KindMissingSection
	KindMissingField
	KindInvalidValue
)

var (
	ErrMissingFile    = errors.New("configuration file missing or invalid")
	ErrMissingSection = errors.New("missing configuration section")
	ErrMissingField   = errors.New("missing configuration field")
	ErrInvalidValue   = errors.New("invalid configuration value")
)

// ConfigError reports which part of the settings document is broken.
type ConfigError struct {
	Kind    ErrorKind
	Path    string
	Section string
	Field   string
	Msg     string
	Err     error
}

func (e *ConfigError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "config: " + msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	switch e.Kind {
	case KindMissingFile:
		return target == ErrMissingFile
	case KindMissingSection:
		return target == ErrMissingSection
	case KindMissingField:
		return target == ErrMissingField
	case KindInvalidValue:
		return target == ErrInvalidValue
	}
	return false
}
