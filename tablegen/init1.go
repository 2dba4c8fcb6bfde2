package main

import (
	"os"

	"github.com/mattn/go-isatty"
	. "github.com/spf13/pflag"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var pTables, pWorkers, pNoCodesDefault = uint(1), uint(0), false
var pConfig, pSeed, pMetrics = "", "", ""
var pHelp, pNoCodes, pQuiet, pUnique, pVerbose, pVerify bool
var yell, purp, und, zero = "\033[33m", "\033[35m", "\033[4m", "\033[0m"

func init() {
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		pNoCodesDefault = true
	}
	pNoCodes = pNoCodesDefault
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--no-codes=false":
			pNoCodes = false
		case "--quiet", "--quiet=true":
			pNoCodes, pQuiet = true, true
		case "--no-codes", "--no-codes=true":
			pNoCodes = true
		}
	}
	if pNoCodes {
		yell, purp, und, zero = "", "", "", ""
	}
	bindFlags(CommandLine)
}

// bindFlags declares every flag on fs. Flags are ordered alphabetically except for help, which is
// hoisted to the top.
func bindFlags(fs *FlagSet) {
	fs.BoolVarP(&pHelp, "help", "h", false,
		purp+"print this help menu"+zero+n)

	fs.StringVarP(&pConfig, "config", "c", "",
		purp+"read settings from a YAML file; flags take precedence"+zero)

	fs.StringVar(&pMetrics, "metrics", "",
		purp+"write run metrics to FILE in Prometheus text format"+zero)

	fs.Bool("no-codes", pNoCodesDefault,
		purp+"print to console w/o formatting codes or simplified"+zero+
			n+purp+"filepaths"+zero)

	fs.UintVarP(&pTables, "ntables", "n", 1,
		purp+"number of tables to build, each with its own reduction"+zero+
			n+purp+"function (1 to 255)"+zero)

	fs.BoolVar(&pQuiet, "quiet", false,
		purp+"suppress progress and print ONLY breaking errors"+zero+
			n+"(enables --no-codes)")

	fs.StringVarP(&pSeed, "seed", "s", "",
		purp+"derive every random choice from STRING so runs repeat"+zero+
			n+purp+"byte for byte"+zero+" (default random)")

	fs.BoolVarP(&pUnique, "unique-ends", "u", false,
		purp+"discard chains whose end point repeats within a table"+zero)

	fs.BoolVarP(&pVerbose, "verbose", "v", false,
		purp+"log per-table progress"+zero)

	fs.BoolVar(&pVerify, "verify", false,
		purp+"re-read every table written and recompute its chains"+zero)

	fs.UintVarP(&pWorkers, "workers", "w", 0,
		purp+"tables built at once"+zero+" (default number of CPUs)")

	fs.SortFlags = false
}
