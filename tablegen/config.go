package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/p7r0x7/hellman"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// config is everything one invocation needs. Defaults are overridden by the YAML file named by
// --config, which is in turn overridden by flags set on the command line and by positionals.
type config struct {
	Tables     int    `yaml:"ntables"`
	Path       string `yaml:"path"`
	Seed       string `yaml:"seed"`
	Workers    int    `yaml:"workers"`
	UniqueEnds bool   `yaml:"unique_ends"`
	Verify     bool   `yaml:"verify"`
	Metrics    string `yaml:"metrics"`
	LogLevel   string `yaml:"log_level"`

	Chains, Columns uint64 `yaml:"-"`
}

var errUsage = errors.New("usage: tablegen [flags] <nchains> <ncolumns> [path]")

func defaultConfig() config {
	return config{Tables: 1, Path: defaultPath(), LogLevel: "info"}
}

func defaultPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return "tables"
	}
	return filepath.Join(wd, "tables")
}

func loadConfig(path string, c config) (config, error) {
	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// configure merges defaults, the optional config file, flags set on fs, and the positional
// arguments, then validates the result. Nothing is created on disk.
func configure(fs *pflag.FlagSet, args []string) (config, error) {
	c, err := defaultConfig(), error(nil)
	if pConfig != "" {
		if c, err = loadConfig(pConfig, c); err != nil {
			return c, err
		}
	}

	if fs.Changed("ntables") {
		c.Tables = int(pTables)
	}
	if fs.Changed("seed") {
		c.Seed = pSeed
	}
	if fs.Changed("workers") {
		c.Workers = int(pWorkers)
	}
	if fs.Changed("unique-ends") {
		c.UniqueEnds = pUnique
	}
	if fs.Changed("verify") {
		c.Verify = pVerify
	}
	if fs.Changed("metrics") {
		c.Metrics = pMetrics
	}
	switch {
	case pQuiet:
		c.LogLevel = "error"
	case pVerbose:
		c.LogLevel = "debug"
	}

	if len(args) < 2 || len(args) > 3 {
		return c, errUsage
	}
	if c.Chains, err = strconv.ParseUint(args[0], 10, 64); err != nil {
		return c, fmt.Errorf("nchains: %w", err)
	}
	if c.Columns, err = strconv.ParseUint(args[1], 10, 64); err != nil {
		return c, fmt.Errorf("ncolumns: %w", err)
	}
	if len(args) == 3 {
		c.Path = args[2]
	}
	return c, c.validate()
}

func (c config) validate() error {
	if c.Tables < 1 || c.Tables > hellman.MaxTables {
		return fmt.Errorf("%w: got %d", hellman.ErrTableCount, c.Tables)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Path == "" {
		return hellman.ErrNoDir
	}
	_, err := c.level()
	return err
}

func (c config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
