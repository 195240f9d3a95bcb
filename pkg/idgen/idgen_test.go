package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDGenerator(t *testing.T) {
	g := NewUUID()
	a, b := g.NewID(), g.NewID()

	assert.True(t, Valid(a))
	assert.NotEqual(t, a, b)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("7d4a2f6e-8c1b-4a52-9a0e-3c3f2d9b1e11"))
	assert.False(t, Valid("plan-1"))
	assert.False(t, Valid(""))
}

func TestSequence(t *testing.T) {
	s := NewSequence("a", "b")
	assert.Equal(t, "a", s.NewID())
	assert.Equal(t, "b", s.NewID())
	assert.True(t, Valid(s.NewID()))
}
