package patrol

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// ProgressFunc is called after each candidate finishes. It may be called
// from several goroutines at once.
type ProgressFunc func(done, total int)

type SearchOptions struct {
	// Workers bounds how many patrols run at once. Zero means NumCPU.
	Workers  int
	Progress ProgressFunc
}

// SearchResult lists the cells that trap the guard in a loop when obstructed.
type SearchResult struct {
	Candidates int
	Traps      []Cell
}

func (r SearchResult) Count() int {
	return len(r.Traps)
}

// Candidates lists every floor cell that may hold a new obstruction. The
// guard's start is never a candidate.
func Candidates(g *Grid) []Cell {
	start := g.Start().Cell
	floor := g.FloorCells()
	result := floor[:0]
	for _, c := range floor {
		if c != start {
			result = append(result, c)
		}
	}
	return result
}

// SearchObstructions obstructs each candidate in turn and collects those
// that leave the guard patrolling forever.
func SearchObstructions(ctx context.Context, sim *Simulator, opts SearchOptions) (SearchResult, error) {
	candidates := Candidates(sim.grid)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	log.Debug("Obstruction search started", "candidates", len(candidates), "workers", workers)

	semaphore := make(chan struct{}, workers)
	trapsChannel := make(chan Cell, len(candidates))
	var (
		wg       sync.WaitGroup
		done     atomic.Int64
		firstErr error
		errOnce  sync.Once
		failed   atomic.Bool
	)

	for _, candidate := range candidates {
		if ctx.Err() != nil || failed.Load() {
			break
		}

		semaphore <- struct{}{}
		wg.Add(1)

		go func(obstruction Cell) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result, err := sim.Run(&obstruction)
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				failed.Store(true)
				return
			}
			if !result.Exited {
				trapsChannel <- obstruction
			}

			finished := int(done.Add(1))
			if opts.Progress != nil {
				opts.Progress(finished, len(candidates))
			}
		}(candidate)
	}

	wg.Wait()
	close(trapsChannel)

	if firstErr != nil {
		return SearchResult{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return SearchResult{}, err
	}

	traps := make([]Cell, 0, len(trapsChannel))
	for cell := range trapsChannel {
		traps = append(traps, cell)
	}
	sort.Slice(traps, func(i, j int) bool {
		if traps[i].Row != traps[j].Row {
			return traps[i].Row < traps[j].Row
		}
		return traps[i].Col < traps[j].Col
	})

	log.Debug("Obstruction search finished", "candidates", len(candidates), "traps", len(traps))
	return SearchResult{Candidates: len(candidates), Traps: traps}, nil
}
