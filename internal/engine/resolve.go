package engine

import (
	"context"
	"fmt"
)

// resolveAll resolves cmds one at a time, in insertion order, and merges the
// resulting messages into a single insertion-ordered set.
//
// Messages from an earlier command come first; duplicates collapse to the
// first occurrence. The first resolver error aborts the whole resolution and
// no partial result is returned.
func resolveAll[M comparable, C comparable](ctx context.Context, resolve Resolver[M, C], cmds Set[C]) (Set[M], error) {
	var merged Set[M]
	for cmd := range cmds.All() {
		if err := ctx.Err(); err != nil {
			return Set[M]{}, err
		}
		msgs, err := resolve(ctx, cmd)
		if err != nil {
			return Set[M]{}, fmt.Errorf("resolve %v: %w", cmd, err)
		}
		merged.Merge(msgs)
	}
	return merged, nil
}
