// Package selftest validates IDs for the ulidgen validation mode and stress command.
package selftest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ulidgen.io/pkg/ulid"
)

var (
	ErrRoundTrip         = errors.New("decoded id differs from generated id")
	ErrNotSelfEqual      = errors.New("id not equal to itself")
	ErrEqualsZero        = errors.New("id equals the zero id")
	ErrNegativeTimestamp = errors.New("negative timestamp")
	ErrOrder             = errors.New("id not after the previous id from the same producer")
	ErrDuplicate         = errors.New("duplicate id")
)

// Check runs the round-trip, self-equality, non-equality with zero and
// non-negative timestamp checks on id.
func Check(id ulid.ID) error {
	decoded, err := ulid.Decode([]byte(ulid.Encode(id)))
	if err != nil {
		return fmt.Errorf("decode %s: %w", id, err)
	}

	switch {
	case !ulid.Equal(id, decoded):
		return fmt.Errorf("%w: %s != %s", ErrRoundTrip, id, decoded)
	case !ulid.Equal(id, id):
		return fmt.Errorf("%w: %s", ErrNotSelfEqual, id)
	case ulid.Equal(ulid.Zero, decoded):
		return fmt.Errorf("%w: %s", ErrEqualsZero, id)
	case id.TimestampMs() < 0:
		return fmt.Errorf("%w: %d", ErrNegativeTimestamp, id.TimestampMs())
	}
	return nil
}

// Report summarises a Stress run.
type Report struct {
	Workers int
	IDs     int
	First   ulid.ID
	Last    ulid.ID
	Elapsed time.Duration
}

// Stress calls f.Next count times from each of workers goroutines.
// Every ID must pass Check, be unique, and be after the previous ID the same
// worker received. The first failure, or ctx ending, stops all workers.
func Stress(ctx context.Context, f *ulid.Factory, workers, count int) (Report, error) {
	if workers < 1 || count < 1 {
		return Report{}, fmt.Errorf("stress needs at least one worker and one id, got workers=%d count=%d", workers, count)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		start   = time.Now()
		results = make([][]ulid.ID, workers)
		errOnce sync.Once
		runErr  error
		wg      sync.WaitGroup
	)

	fail := func(err error) {
		errOnce.Do(func() {
			runErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ids := make([]ulid.ID, 0, count)
			for i := 0; i < count; i++ {
				if err := ctx.Err(); err != nil {
					fail(err)
					return
				}

				id, err := f.Next()
				if err != nil {
					fail(fmt.Errorf("worker %d: %w", w, err))
					return
				}
				if err := Check(id); err != nil {
					fail(fmt.Errorf("worker %d: %w", w, err))
					return
				}
				if i > 0 && ids[i-1].Compare(id) >= 0 {
					fail(fmt.Errorf("worker %d: %w: %s then %s", w, ErrOrder, ids[i-1], id))
					return
				}
				ids = append(ids, id)
			}
			results[w] = ids
		}(w)
	}
	wg.Wait()

	if runErr != nil {
		return Report{}, runErr
	}

	report := Report{Workers: workers, Elapsed: time.Since(start)}
	seen := make(map[ulid.ID]struct{}, workers*count)
	for _, ids := range results {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				return Report{}, fmt.Errorf("%w: %s", ErrDuplicate, id)
			}
			seen[id] = struct{}{}

			if report.IDs == 0 || id.Compare(report.First) < 0 {
				report.First = id
			}
			if id.Compare(report.Last) > 0 {
				report.Last = id
			}
			report.IDs++
		}
	}
	return report, nil
}
