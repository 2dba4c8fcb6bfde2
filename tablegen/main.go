package main

import (
	"context"
	"encoding/hex"
	. "fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/p7r0x7/hellman"
	"github.com/p7r0x7/vainpath"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/spf13/pflag"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const n = "\n"
const success, failure, invalid = 0, 1, 2

func main() { os.Exit(program()) }

// help prints a usage menu. To consistently render this menu in most terminal windows, its
// content should be no wider than 80 columns.
func help() {
	origin, err := os.Executable()
	if err != nil {
		origin = "tablegen" /* Default binary name */
	} else {
		origin = filepath.Base(origin)
	}
	name := vainpath.Trim(origin, "…", 12)
	spaces := strings.Repeat(" ", utf8.RuneCountInString(name)+3)
	Fprint(os.Stderr, yell, "Hellman time-memory trade-off tables for SHA-256 over 38-bit integers.",
		zero, n+n+
			"Usage:"+n+
			"  ", name, " [-h]"+n,
		spaces, "[-uv] [-n <uint>] [-s STRING] [-w <uint>] [-c FILE] [--verify]"+n,
		spaces, "[--metrics FILE] [--quiet|no-codes] NCHAINS NCOLUMNS [PATH]"+n+n+
			"Options:"+n)
	PrintDefaults()
	Fprint(os.Stderr, n+"Each table is written to PATH as `<reduction index>.txt`; PATH defaults to"+n+
		"./tables and is created when missing. Order of arguments does not matter unless"+n+
		"`--` is specified, signaling the end of parsed flags."+n)
}

// This program is a command-line interface for hellman: it validates the operator's request
// before anything is built, then builds and persists the tables concurrently.
func program() int {
	if err := CommandLine.Parse(os.Args[1:]); err != nil {
		Fprint(os.Stderr, purp, err, zero, n)
		return invalid
	}
	if show, code := usage(CommandLine); show {
		help()
		if code != success {
			Fprint(os.Stderr, n, purp, errUsage, zero, n)
		}
		return code
	}
	c, err := configure(CommandLine, Args())
	if err != nil {
		Fprint(os.Stderr, purp, err, zero, n)
		return invalid
	}
	level, _ := c.level() /* Checked by configure. */
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	out := io.Writer(os.Stdout)
	if pQuiet {
		out = io.Discard
	}
	return generate(ctx, c, out, logger)
}

// usage decides whether an invocation only gets the help menu, and with which exit code. A bare
// invocation or --help succeeds; flags without NCHAINS and NCOLUMNS are an incomplete request.
func usage(fs *FlagSet) (show bool, code int) {
	switch {
	case pHelp:
		return true, success
	case fs.NArg() > 0:
		return false, success
	case fs.NFlag() > 0:
		return true, invalid
	}
	return true, success
}

// generate runs one configured build and reports it to out. It returns the process exit code.
func generate(ctx context.Context, c config, out io.Writer, logger *slog.Logger) int {
	seed := hellman.NewSeed(c.Seed)
	if c.Seed == "" {
		var err error
		if seed, err = hellman.RandomSeed(); err != nil {
			logger.Error("seeding failed", "error", err)
			return failure
		}
	}
	logger.Debug("seeded", "seed", hex.EncodeToString(seed[:]))

	builder := hellman.Builder{UniqueEnds: c.UniqueEnds}
	o, err := hellman.New(hellman.Options{
		Tables:  c.Tables,
		Chains:  c.Chains,
		Columns: c.Columns,
		Dir:     c.Path,
		Seed:    seed,
		Workers: c.Workers,
		Builder: builder,
		Logger:  logger,
	})
	if err != nil {
		Fprint(os.Stderr, purp, err, zero, n)
		return invalid
	}

	Fprint(out, "Tables: ", c.Tables, ", chains: ", c.Chains, ", columns: ", c.Columns, n,
		"Path to tables: ", und, display(c.Path), zero, n)
	t := time.Now()
	sum, runErr := o.Run(ctx, func(res hellman.Result) {
		if res.Err != nil {
			Fprint(out, purp, "redu ", res.Index, " failed: ", res.Err, zero, n)
			return
		}
		line := Sprintf("  (%d chains, xxh3 %016x, %s)", res.Chains, res.Artifact.Checksum,
			res.Elapsed.Truncate(time.Microsecond))
		if res.Merged > 0 {
			line = Sprintf("  (%d chains, %d merged, xxh3 %016x, %s)", res.Chains, res.Merged,
				res.Artifact.Checksum, res.Elapsed.Truncate(time.Microsecond))
		}
		Fprint(out, yell, "redu ", res.Index, zero, "  ", und, display(res.Artifact.Path), zero, line, n)
	})

	code := success
	if runErr != nil {
		logger.Error("run incomplete", "written", sum.Written, "failed", sum.Failed, "error", runErr)
		code = failure
	}
	if c.Verify {
		for _, res := range sum.Results {
			if res.Err != nil {
				continue
			}
			if err := verify(res.Artifact.Path, &builder); err != nil {
				logger.Error("verification failed", "path", res.Artifact.Path, "error", err)
				code = failure
			}
		}
	}
	if c.Metrics != "" {
		if err := prometheus.WriteToTextfile(c.Metrics, o.Registry()); err != nil {
			logger.Error("writing metrics failed", "path", c.Metrics, "error", err)
			code = failure
		}
	}

	if code == success {
		Fprint(out, sum.Written, " ", yell, "tables generated successfully", zero,
			" in ", time.Since(t).Truncate(time.Millisecond), n)
	} else {
		Fprint(out, sum.Written, " of ", c.Tables, " ", purp, "tables generated; see errors above", zero, n)
	}
	return code
}

func verify(path string, b *hellman.Builder) error {
	t, err := hellman.OpenTable(path)
	if err != nil {
		return err
	}
	return t.Verify(b)
}

func display(path string) string {
	if pNoCodes {
		return filepath.Clean(path)
	}
	return vainpath.Simplify(path)
}
