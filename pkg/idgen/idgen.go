// Package idgen issues primary keys for new rows.
package idgen

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var Module = fx.Module("idgen",
	fx.Provide(NewUUID),
)

type Generator interface {
	NewID() string
}

type uuidGenerator struct{}

// NewUUID returns a generator of random (version 4) UUID strings.
func NewUUID() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// Valid reports whether id parses as a UUID.
func Valid(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// Sequence returns ids from a fixed list, then falls back to random UUIDs.
type Sequence struct {
	ids []string
}

func NewSequence(ids ...string) *Sequence {
	return &Sequence{ids: ids}
}

func (s *Sequence) NewID() string {
	if len(s.ids) == 0 {
		return uuid.NewString()
	}
	id := s.ids[0]
	s.ids = s.ids[1:]
	return id
}
