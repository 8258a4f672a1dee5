// Package parallel splits row-structured CPU work over a bounded set of
// goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers returns n, or GOMAXPROCS when n < 1.
func Workers(n int) int {
	if n < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Rows runs fn for every row in [0, rows) on at most workers goroutines.
// Each row is handled by exactly one call, so fn may write its row without
// locking. Cancellation is checked before each row.
func Rows(ctx context.Context, workers, rows int, fn func(row int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers))
	for r := 0; r < rows; r++ {
		if gctx.Err() != nil {
			break
		}
		r := r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Bands is Rows over groups of bandSize consecutive rows; fn receives the
// half-open row range [y0, y1).
func Bands(ctx context.Context, workers, rows, bandSize int, fn func(y0, y1 int)) error {
	bandSize = max(1, bandSize)
	bands := (rows + bandSize - 1) / bandSize
	return Rows(ctx, workers, bands, func(b int) {
		y0 := b * bandSize
		fn(y0, min(rows, y0+bandSize))
	})
}
