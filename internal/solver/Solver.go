package solver

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Mshel/patrolsim/internal/patrol"
	"github.com/Mshel/patrolsim/internal/stones"
	"github.com/Mshel/patrolsim/internal/store"
	"github.com/charmbracelet/log"
)

// PatrolReport holds both patrol answers for one grid.
type PatrolReport struct {
	Input         string
	Rows, Cols    int
	Visited       int
	Exited        bool
	LoopPositions int
	Traps         []patrol.Cell
	Duration      time.Duration
}

type StoneReport struct {
	Blinks   int
	Total    *big.Int
	Duration time.Duration
}

// Solver runs the puzzles and records each answer in the run history.
// History may be nil, in which case nothing is recorded.
type Solver struct {
	History *store.RunStore
	Workers int
}

func New(history *store.RunStore, workers int) *Solver {
	return &Solver{History: history, Workers: workers}
}

// PreparePatrol loads a grid and builds its simulator.
func PreparePatrol(path string) (*patrol.Simulator, error) {
	grid, err := patrol.LoadGrid(path)
	if err != nil {
		return nil, err
	}
	return patrol.NewSimulator(grid, patrol.BuildTransitions(grid)), nil
}

// SolvePatrol counts the visited cells of the unobstructed patrol and the
// obstructions that trap the guard.
func (s *Solver) SolvePatrol(ctx context.Context, input string, progress patrol.ProgressFunc) (PatrolReport, error) {
	started := time.Now()

	sim, err := PreparePatrol(input)
	if err != nil {
		return PatrolReport{}, err
	}

	report, err := s.solvePatrol(ctx, sim, progress)
	if err != nil {
		return PatrolReport{}, err
	}
	report.Input = input
	report.Duration = time.Since(started)

	log.Info("Patrol solved", "input", input, "visited", report.Visited, "loop_positions", report.LoopPositions, "elapsed", report.Duration)
	s.recordPatrol(report)
	return report, nil
}

func (s *Solver) solvePatrol(ctx context.Context, sim *patrol.Simulator, progress patrol.ProgressFunc) (PatrolReport, error) {
	result, err := sim.Run(nil)
	if err != nil {
		return PatrolReport{}, fmt.Errorf("patrol: %w", err)
	}

	search, err := patrol.SearchObstructions(ctx, sim, patrol.SearchOptions{Workers: s.Workers, Progress: progress})
	if err != nil {
		return PatrolReport{}, fmt.Errorf("obstruction search: %w", err)
	}

	return PatrolReport{
		Rows:          sim.Grid().Rows(),
		Cols:          sim.Grid().Cols(),
		Visited:       result.Visited.Len(),
		Exited:        result.Exited,
		LoopPositions: search.Count(),
		Traps:         search.Traps,
	}, nil
}

func (s *Solver) recordPatrol(report PatrolReport) {
	if s.History == nil {
		return
	}
	err := s.History.SavePatrolRun(store.PatrolRun{
		Input:         report.Input,
		Rows:          report.Rows,
		Cols:          report.Cols,
		Visited:       report.Visited,
		LoopPositions: report.LoopPositions,
		Duration:      report.Duration,
	})
	if err != nil {
		log.Error("Run history persist err", "error", err)
	}
}

// SolveStones reports the stone count after each blink count in order.
// Cancelling ctx stops the count between blinks.
func (s *Solver) SolveStones(ctx context.Context, values []string, blinks []int) ([]StoneReport, error) {
	initial := stones.FromValues(values)
	reports := make([]StoneReport, 0, len(blinks))

	for _, n := range blinks {
		started := time.Now()
		counts, err := stones.Simulate(ctx, initial, n)
		if err != nil {
			return nil, err
		}
		report := StoneReport{Blinks: n, Total: counts.Total(), Duration: time.Since(started)}
		log.Info("Stones counted", "blinks", n, "distinct", len(counts), "elapsed", report.Duration)

		s.recordStones(values, report)
		reports = append(reports, report)
	}

	return reports, nil
}

func (s *Solver) recordStones(values []string, report StoneReport) {
	if s.History == nil {
		return
	}
	err := s.History.SaveStoneRun(store.StoneRun{
		Stones:   FormatValues(values),
		Blinks:   report.Blinks,
		Total:    report.Total.String(),
		Duration: report.Duration,
	})
	if err != nil {
		log.Error("Run history persist err", "error", err)
	}
}

func FormatValues(values []string) string {
	return strings.Join(values, " ")
}
