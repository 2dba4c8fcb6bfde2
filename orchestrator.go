package hellman

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var (
	// ErrTableCount reports a request for fewer than 1 or more than 255 tables.
	ErrTableCount = errors.New("hellman: table count must be between 1 and 255")
	// ErrNoDir reports a run without a destination directory.
	ErrNoDir = errors.New("hellman: no table directory")
)

// Options configures one run of an Orchestrator.
type Options struct {
	Tables  int    /* 1 to 255 */
	Chains  uint64 /* per table */
	Columns uint64 /* per chain */
	Dir     string
	Seed    [32]byte
	Workers int /* runtime.NumCPU() when zero */

	Builder  Builder
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// Result is the completion notice of one table.
type Result struct {
	Slot     int /* position in the run's index assignment */
	Index    Index
	Artifact Artifact
	Chains   uint64 /* stored */
	Merged   uint64
	Elapsed  time.Duration
	Err      error
}

// Summary lists every table of a run in completion order.
type Summary struct {
	Results         []Result
	Written, Failed int
}

// Orchestrator builds and persists a set of tables concurrently, one task per table.
type Orchestrator struct {
	opts    Options
	writer  *Writer
	log     *slog.Logger
	reg     *prometheus.Registry
	metrics *metrics
}

// New validates opts. Nothing is built or written until Run.
func New(opts Options) (*Orchestrator, error) {
	if opts.Tables < 1 || opts.Tables > MaxTables {
		return nil, fmt.Errorf("%w: got %d", ErrTableCount, opts.Tables)
	}
	if opts.Dir == "" {
		return nil, ErrNoDir
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	m, err := newMetrics(opts.Registry)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		opts:    opts,
		writer:  &Writer{Dir: opts.Dir},
		log:     opts.Logger,
		reg:     opts.Registry,
		metrics: m,
	}, nil
}

// Registry holds the run's counters and histograms.
func (o *Orchestrator) Registry() *prometheus.Registry { return o.reg }

// Indices is the reduction index assignment of the run: Tables distinct indices drawn from the
// seed's stream 0. Table slot i is built with Indices()[i] using stream i+1.
func (o *Orchestrator) Indices() []Index {
	return NewSource(o.opts.Seed, 0).Indices(o.opts.Tables)
}

// Run builds every table and calls report, from a single goroutine, once per table in the order
// tables finish. A table that fails does not stop the others; the returned error joins the
// failures of all tables that did not persist.
func (o *Orchestrator) Run(ctx context.Context, report func(Result)) (Summary, error) {
	indices := o.Indices()
	from := make(chan Result, len(indices))
	o.log.Info("building tables", "tables", len(indices), "chains", o.opts.Chains,
		"columns", o.opts.Columns, "workers", o.opts.Workers, "dir", o.opts.Dir)

	var g errgroup.Group
	g.SetLimit(o.opts.Workers)
	go func() {
		for slot, r := range indices {
			slot, r := slot, r
			g.Go(func() error {
				from <- o.build(ctx, slot, r)
				return nil /* Failures travel in the Result so siblings keep running. */
			})
		}
		_ = g.Wait()
		close(from)
	}()

	var sum Summary
	var errs []error
	for res := range from {
		if res.Err != nil {
			sum.Failed++
			errs = append(errs, fmt.Errorf("table %d: %w", res.Index, res.Err))
		} else {
			sum.Written++
		}
		sum.Results = append(sum.Results, res)
		if report != nil {
			report(res)
		}
	}
	o.log.Info("tables finished", "written", sum.Written, "failed", sum.Failed)
	return sum, errors.Join(errs...)
}

func (o *Orchestrator) build(ctx context.Context, slot int, r Index) Result {
	start, res := time.Now(), Result{Slot: slot, Index: r}
	log := o.log.With("redu", r, "slot", slot)
	log.Debug("table started")

	/* Every task owns its generator; stream 0 is reserved for index assignment. */
	t, err := o.opts.Builder.Table(ctx, NewSource(o.opts.Seed, uint64(slot)+1),
		o.opts.Chains, o.opts.Columns, r)
	if err == nil {
		res.Chains, res.Merged = t.Len(), t.Merged
		o.metrics.chains.Add(float64(t.Len() + t.Merged))
		o.metrics.steps.Add(float64(t.Len()+t.Merged) * float64(o.opts.Columns))
		o.metrics.merges.Add(float64(t.Merged))
		res.Artifact, err = o.writer.Write(ctx, t)
	}
	res.Err, res.Elapsed = err, time.Since(start)
	o.metrics.seconds.Observe(res.Elapsed.Seconds())

	if err != nil {
		o.metrics.tables.WithLabelValues("failed").Inc()
		log.Error("table failed", "error", err)
	} else {
		o.metrics.tables.WithLabelValues("written").Inc()
		log.Debug("table written", "path", res.Artifact.Path, "chains", res.Chains,
			"merged", res.Merged, "elapsed", res.Elapsed)
	}
	return res
}
