package mc

import (
	"context"

	"golang.org/x/exp/rand"
)

// Batch is a named set of paths simulated from one model, kept in the order
// they were generated. Path i was drawn from the source seeded by seed(i).
type Batch struct {
	Name   string
	Config Config
	paths  []Path
}

// Simulate n paths from model m. seed(i) gives the source seed of path i, so a
// batch can be regenerated path by path.
func Simulate(ctx context.Context, m Model, name string, n int, seed func(i int) uint64) (*Batch, error) {
	b := &Batch{Name: name, Config: m.Config(), paths: make([]Path, 0, n)}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.paths = append(b.paths, m.Path(rand.NewSource(seed(i))))
	}
	return b, nil
}

func (b *Batch) Len() int {
	return len(b.paths)
}

func (b *Batch) Path(i int) Path {
	return b.paths[i]
}

// Paths returns the paths in insertion order. The slice must not be modified.
func (b *Batch) Paths() []Path {
	return b.paths
}
