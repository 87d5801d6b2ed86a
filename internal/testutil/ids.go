package testutil

// FixedIDGenerator returns the same engine ID every time.
//
// Unlike engine.FixedGenerator, which hands out ids in sequence and panics
// when exhausted, this generator never runs out. Use it when a test builds
// engines in a loop and only needs stable log and trace output.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator that always returns id.
// If id is empty, Generate returns "test-engine".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-engine"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id. Implements engine.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
