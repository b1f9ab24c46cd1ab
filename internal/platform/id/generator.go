package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque ids for poll cycles and published notifications.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues time-ordered UUIDv7 values so ids sort by creation.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// Static returns the same id every time. Useful in tests.
type Static string

func (s Static) NewID() (string, error) {
	return string(s), nil
}
