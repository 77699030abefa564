package librespot

import (
	"fmt"

	"github.com/librespot-org/librespot-golang/librespot"
	"github.com/librespot-org/librespot-golang/librespot/core"
	"github.com/rs/zerolog"
)

// Session wraps an authenticated connection to the service and hands out
// the catalog and audio adapters built on top of it.
type Session struct {
	inner *core.Session
	log   zerolog.Logger
}

// Connect logs in with username and password and returns a ready
// session. deviceName is the name announced to the service.
func Connect(username, password, deviceName string, log zerolog.Logger) (*Session, error) {
	log.Debug().Str("user", username).Str("device", deviceName).Msg("logging in")

	inner, err := librespot.Login(username, password, deviceName)
	if err != nil {
		return nil, fmt.Errorf("cannot log in: %w", err)
	}

	log.Debug().Msg("logged in")
	return &Session{inner: inner, log: log}, nil
}

// Catalog returns the metadata adapter for this session.
func (s *Session) Catalog() *Catalog {
	return &Catalog{session: s.inner, log: s.log}
}

// Audio returns the audio fetch adapter for this session.
func (s *Session) Audio() *Audio {
	return &Audio{session: s.inner, log: s.log}
}
