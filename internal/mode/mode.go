// Package mode holds the mock/real decision for a dashboard process.
//
// A Switch is built once at startup and injected where the decision is needed.
// The MOCK_MODE environment variable, when truthy, wins over the value set from
// configuration on every check, so an operator can force mock mode without
// editing the settings file.
package mode

import (
	"os"
	"strings"
	"sync"
)

// EnvVar is the reserved variable that forces mock mode.
const EnvVar = "MOCK_MODE"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type Switch struct {
	mu     sync.RWMutex
	mock   bool
	lookup LookupFunc
}

func New() *Switch {
	return NewWithLookup(os.LookupEnv)
}

func NewWithLookup(lookup LookupFunc) *Switch {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Switch{lookup: lookup}
}

// Set records the mode decided by configuration.
func (s *Switch) Set(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mock = enabled
}

// EnvOverride reports whether the environment forces mock mode.
func (s *Switch) EnvOverride() bool {
	v, ok := s.lookup(EnvVar)
	return ok && IsTruthy(v)
}

func (s *Switch) IsMock() bool {
	if s.EnvOverride() {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mock
}

// Name is "mock" or "real".
func (s *Switch) Name() string {
	if s.IsMock() {
		return "mock"
	}
	return "real"
}

// IsTruthy accepts "true", "1" and "yes" in any case.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
