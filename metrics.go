package hellman

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

type metrics struct {
	chains, steps, merges prometheus.Counter
	tables                *prometheus.CounterVec
	seconds               prometheus.Histogram
}

// register adds c to reg. When an identical collector is already registered, as happens when
// several runs share one registry, the existing collector is returned so counts accumulate.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("hellman: register metrics: %w", err)
	}
	return c, nil
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m, err := &metrics{}, error(nil)
	if m.chains, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hellman_chains_total",
		Help: "Chains computed across all tables, including discarded ones.",
	})); err != nil {
		return nil, err
	}
	if m.steps, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hellman_hash_steps_total",
		Help: "Hash-and-reduce steps performed.",
	})); err != nil {
		return nil, err
	}
	if m.merges, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hellman_endpoint_merges_total",
		Help: "Chains discarded because their end point repeated within a table.",
	})); err != nil {
		return nil, err
	}
	if m.tables, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hellman_tables_total",
		Help: "Tables finished, by outcome.",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if m.seconds, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hellman_table_seconds",
		Help:    "Wall time to build and persist one table.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
	})); err != nil {
		return nil, err
	}
	return m, nil
}
