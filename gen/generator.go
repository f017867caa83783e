package gen

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"geogen/analyze"
	"geogen/dataset"
	"geogen/deduce"
	"geogen/predicates"
)

// Config drives a generation run. Timeout is the per-sample derivation
// budget.
type Config struct {
	MaxClauses int
	Threads    int
	Samples    int
	Timeout    time.Duration
	Seed       int64
	Rules      []deduce.Rule
}

func (c *Config) validate() error {
	if c.MaxClauses < 2 {
		return fmt.Errorf("max clauses must be at least 2, got %d", c.MaxClauses)
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be positive, got %d", c.Threads)
	}
	if c.Samples < 0 {
		return fmt.Errorf("samples must not be negative, got %d", c.Samples)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// Stats counts the fate of every attempted sample.
type Stats struct {
	Sampled    atomic.Int64
	Accepted   atomic.Int64
	Degenerate atomic.Int64
	Timeouts   atomic.Int64
	NoGoal     atomic.Int64
	Duplicates atomic.Int64
}

func (s *Stats) String() string {
	return fmt.Sprintf("sampled=%d accepted=%d degenerate=%d timeouts=%d no_goal=%d duplicates=%d",
		s.Sampled.Load(), s.Accepted.Load(), s.Degenerate.Load(),
		s.Timeouts.Load(), s.NoGoal.Load(), s.Duplicates.Load())
}

type Generator struct {
	cfg   Config
	log   *zap.Logger
	seen  mapset.Set[string]
	stats Stats
}

func New(cfg Config, log *zap.Logger) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = deduce.BuiltinRules()
	}
	return &Generator{
		cfg:  cfg,
		log:  log,
		seen: mapset.NewSet[string](),
	}, nil
}

// Run fans sampling out across cfg.Threads workers and funnels accepted
// samples into w until cfg.Samples rows are written or ctx is cancelled.
func (g *Generator) Run(ctx context.Context, w dataset.Writer) (*Stats, error) {
	if g.cfg.Samples == 0 {
		return &g.stats, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, wctx := errgroup.WithContext(runCtx)
	results := make(chan *dataset.Sample)
	for i := 0; i < g.cfg.Threads; i++ {
		i := i
		eg.Go(func() error {
			return g.worker(wctx, i, results)
		})
	}

	collectErr := make(chan error, 1)
	go func() {
		defer cancel() // stop workers once enough rows are in
		written := 0
		for s := range results {
			if err := w.Write(s); err != nil {
				collectErr <- fmt.Errorf("writing sample: %w", err)
				return
			}
			written++
			g.stats.Accepted.Add(1)
			if written%1000 == 0 || written == g.cfg.Samples {
				g.log.Info("progress", zap.Int("written", written), zap.String("stats", g.stats.String()))
			}
			if written == g.cfg.Samples {
				collectErr <- nil
				return
			}
		}
		collectErr <- nil
	}()

	workerErr := eg.Wait()
	close(results)
	err := <-collectErr

	if err != nil {
		return &g.stats, err
	}
	if workerErr != nil && !errors.Is(workerErr, context.Canceled) {
		return &g.stats, workerErr
	}
	if ctx.Err() != nil && g.stats.Accepted.Load() < int64(g.cfg.Samples) {
		return &g.stats, ctx.Err()
	}
	return &g.stats, nil
}

// worker repeatedly draws problems and submits the ones that yield a proof.
// Each worker owns its RNG: runs with a fixed seed are reproducible per
// thread count.
func (g *Generator) worker(ctx context.Context, id int, results chan<- *dataset.Sample) error {
	seed := g.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed + int64(id)))
	sampler, err := NewSampler(rng, g.cfg.MaxClauses)
	if err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		s, err := g.attempt(ctx, sampler)
		if err != nil {
			return err
		}
		if s == nil {
			continue
		}
		select {
		case results <- s:
		case <-ctx.Done():
			return nil
		}
	}
}

// attempt produces one sample, or nil when the draw was discarded (counted in
// stats). Errors other than the per-sample deadline abort the run.
func (g *Generator) attempt(ctx context.Context, sampler *Sampler) (*dataset.Sample, error) {
	g.stats.Sampled.Add(1)

	prob, model, err := sampler.Sample()
	if err != nil {
		g.stats.Degenerate.Add(1)
		return nil, nil
	}

	engine := deduce.NewEngine(g.cfg.Rules, model)
	for _, s := range prob.Basis {
		if err := engine.AddPremise(s); err != nil {
			g.stats.Degenerate.Add(1)
			return nil, nil
		}
	}

	start := time.Now()
	sctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	err = engine.Run(sctx)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			g.stats.Timeouts.Add(1)
			return nil, nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, nil
		}
		return nil, fmt.Errorf("derivation: %w", err)
	}

	goal := pickGoal(engine, prob.Basis)
	if goal == nil {
		g.stats.NoGoal.Add(1)
		return nil, nil
	}
	prob.Goal = goal.Stmt

	text := prob.Text()
	sig, err := analyze.Signature(text)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing %q: %w", text, err)
	}
	if !g.seen.Add(sig) {
		g.stats.Duplicates.Add(1)
		return nil, nil
	}

	proof, err := engine.Traceback(goal.Stmt)
	if err != nil {
		return nil, fmt.Errorf("traceback: %w", err)
	}

	return &dataset.Sample{
		ID:         uuid.NewString(),
		Problem:    text,
		Goal:       goal.Stmt.Key(),
		NumClauses: len(prob.Clauses),
		Proof:      proof.String(),
		ElapsedMS:  time.Since(start).Milliseconds(),
	}, nil
}

// pickGoal selects the deepest derived fact whose statement is not itself a
// construction basis statement. Ties keep the earliest derivation, so runs
// with a fixed seed pick the same goal.
func pickGoal(e *deduce.Engine, basis []predicates.Statement) *deduce.Fact {
	inBasis := make(map[string]bool, len(basis))
	for _, s := range basis {
		inBasis[s.Key()] = true
	}
	var best *deduce.Fact
	for _, f := range e.Derived() {
		if inBasis[f.Stmt.Key()] {
			continue
		}
		if best == nil || f.Level > best.Level {
			best = f
		}
	}
	return best
}
