// Package idgen issues the identifiers stored battle results are keyed by
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// BattlePrefix is prepended to every battle result ID
const BattlePrefix = "battle"

// Generator issues a new ID on every call
type Generator interface {
	Generate() string
}

// UUIDGenerator issues time ordered UUIDs so IDs created later sort later in
// redis scans and logs
type UUIDGenerator struct {
	prefix string
}

// NewUUID returns a UUID generator. An empty prefix yields bare UUIDs.
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// NewBattle returns the generator used for battle result IDs
func NewBattle() *UUIDGenerator {
	return NewUUID(BattlePrefix)
}

// Generate issues a v7 UUID, falling back to a random v4 if the clock based
// variant cannot be built
func (g *UUIDGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return join(g.prefix, id.String())
}

// SequentialGenerator issues prefix_1, prefix_2 and so on, giving tests
// predictable battle IDs
type SequentialGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequential returns a sequential generator starting at 1
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate issues the next number in the sequence
func (g *SequentialGenerator) Generate() string {
	return join(g.prefix, strconv.FormatUint(g.next.Add(1), 10))
}

func join(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
