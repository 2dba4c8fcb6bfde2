package main

import (
	stdsha "crypto/sha256"
	. "fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/dterei/gotsc"
	"github.com/minio/sha256-simd"
	"github.com/p7r0x7/hellman"
	"github.com/zeebo/blake3"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var columns = [...]uint64{1, 64, 4 << 10, 64 << 10}
var cols, calltime = uint64(0), gotsc.TSCOverhead()

func chainBench(digest func([]byte) [32]byte) func(b *testing.B) {
	bld := &hellman.Builder{Digest: digest}
	return func(b *testing.B) {
		b.SetBytes(int64(8 * cols)) /* Every step hashes one 8-byte chain value. */
		b.ResetTimer()
		x := uint64(0)
		for i := b.N; i > 0; i-- {
			x = bld.Chain(x, 1, cols)
		}
	}
}

func benchAlg(alg func(b *testing.B)) {
	const s = len(columns)
	steps, speeds, usages := make([]float64, s), make([]float64, s), make([]float64, s)

	for i, v := range columns {
		cols = v

		totalHz, polls, mut, done := uint64(0), uint64(0), &sync.Mutex{}, make(chan struct{})
		if calltime > 0 {
			go func() {
				for {
					select {
					case <-done:
						return
					default:
					}
					tsc1 := gotsc.BenchStart()
					time.Sleep(time.Millisecond)
					tsc2 := gotsc.BenchEnd()

					mut.Lock()
					totalHz += tsc2 - tsc1 - calltime
					polls++
					mut.Unlock()

					time.Sleep(time.Millisecond * 9)
				}
			}()
		}
		r := testing.Benchmark(alg)
		close(done)
		mut.Lock()
		totalHz *= 1000

		steps[i] = float64(uint64(r.N)*v) / r.T.Seconds() /* steps/s */
		if polls > 0 {
			speeds[i] = float64(totalHz) / float64(polls) / steps[i] /* cycles/step */
		}
		steps[i] /= 1e6 /* Msteps/s */
		usages[i] = float64(r.AllocedBytesPerOp())
		mut.Unlock()
	}

	Println("Speed " + fmtFloats(steps...) + "   Msteps/s")
	if calltime > 0 {
		Println("      " + fmtFloats(speeds...) + "   cycles/step")
	}
	Println("Usage " + fmtFloats(usages...) + "   B/chain\n")
}

func fmtFloats(f ...float64) string {
	var str, style string
	for _, v := range f {
		switch whole := float64(int64(v)) == v; {
		case v > 1e8 || (v < 1e-6 && !whole):
			style = "%8.3g"
		case v <= 1e1 && !whole:
			style = "%8.6f"
		case v <= 1e2 && !whole:
			style = "%8.5f"
		case v <= 1e3 && !whole:
			style = "%8.4f"
		case v <= 1e4 && !whole:
			style = "%8.3f"
		case v <= 1e5 && !whole:
			style = "%8.2f"
		case v <= 1e6 && !whole:
			style = "%8.1f"
		default:
			style = "%8.f"
		}
		str += "  " + Sprintf(style, v)
	}
	return str
}

func main() {
	Printf("Running Statz on %d CPUs!\n%s/%s\n\n"+
		"Columns:       1        64        4K       64K\n",
		runtime.NumCPU(), runtime.GOOS, runtime.GOARCH)
	t := time.Now()

	Println("github.com/minio/sha256-simd")
	benchAlg(chainBench(sha256.Sum256))

	Println("crypto/sha256")
	benchAlg(chainBench(stdsha.Sum256))

	Println("github.com/zeebo/blake3")
	benchAlg(chainBench(blake3.Sum256))

	Println("Finished in " + time.Since(t).Truncate(time.Millisecond).String() + ".")
}
