// main.go - zcp command line driver

package main

import (
	"fmt"
	"os"
	"path"
	"runtime"

	"github.com/opencoff/go-logger"
	flag "github.com/opencoff/pflag"

	"github.com/opencoff/go-zcp"
	"github.com/opencoff/go-zcp/tuner"
)

var Z = path.Base(os.Args[0])

var version = "0.9.1"

func main() {
	var nworkers, shift int
	var optimize, fadvise, preserve, progress bool
	var help, ver bool
	var logdest string

	bsz := NewSizeValue()
	limit := NewSizeValue()

	fs := flag.NewFlagSet(Z, flag.ExitOnError)

	fs.IntVarP(&nworkers, "nworkers", "p", 4*runtime.NumCPU(), "Use `N` concurrent copy workers")
	fs.IntVarP(&shift, "shift", "s", int(zcp.MaxShift), "Copy blocks of 64KiB * 2^(`S`-6) bytes; S in 6..10")
	fs.VarP(bsz, "block-size", "b", "Copy blocks of `B` bytes (overrides -s)")
	fs.BoolVarP(&optimize, "optimize", "o", false, "Benchmark worker/block-size combinations (needs root)")
	fs.BoolVarP(&fadvise, "fadvise", "", false, "Evict cached pages with fadvise(2) instead of /proc (no root needed)")
	fs.VarP(limit, "limit", "l", "Cap aggregate copy bandwidth at `RATE` bytes/sec")
	fs.BoolVarP(&preserve, "preserve", "m", false, "Preserve mode, ownership, timestamps and xattr")
	fs.BoolVarP(&progress, "progress", "P", false, "Show a progress bar while tuning")
	fs.StringVarP(&logdest, "log", "L", "STDOUT", "Send the tuning log to `F` (a file path or STDOUT)")
	fs.BoolVarP(&ver, "version", "v", false, "Show version and exit")
	fs.BoolVarP(&help, "help", "h", false, "Show this help and exit")

	fs.SetOutput(os.Stdout)

	err := fs.Parse(os.Args[1:])
	if err != nil {
		Die("%s", err)
	}

	if ver {
		fmt.Printf("%s - fast zero-copy cp; version %s\n", Z, version)
		os.Exit(0)
	}

	if help {
		usage(fs)
	}

	args := fs.Args()
	if len(args) != 2 {
		Die("Usage: %s [options] src dst (try %s -h)", Z, Z)
	}
	src, dst := args[0], args[1]

	if s := uint(shift); shift < 0 || s < zcp.MinShift || s > zcp.MaxShift {
		Die("shift must be between %d and %d", zcp.MinShift, zcp.MaxShift)
	}
	if nworkers < 1 {
		Die("invalid worker count %d", nworkers)
	}

	if optimize {
		if limit.Value() > 0 || preserve {
			Warn("-l and -m are ignored with -o")
		}
		autotune(src, dst, fadvise, progress, logdest)
		return
	}

	opts := []zcp.Option{
		zcp.WithWorkers(nworkers),
		zcp.WithShift(uint(shift)),
	}
	if bsz.Value() > 0 {
		opts = append(opts, zcp.WithBlockSize(int64(bsz.Value())))
	}
	if limit.Value() > 0 {
		opts = append(opts, zcp.WithBandwidthLimit(int64(limit.Value())))
	}
	if preserve {
		opts = append(opts, zcp.WithPreserveMetadata())
	}

	r, err := zcp.Copy(dst, src, opts...)
	if err != nil {
		Die("%s", err)
	}

	fmt.Printf("Operation completed in %.2f seconds.\n", r.Elapsed)
	if mb := r.MiBps(); mb > 0 {
		fmt.Printf("Throughput: %.2f MiB/s\n", mb)
	}
}

// run the full tuning sweep and print the ranked report
func autotune(src, dst string, fadvise, progress bool, logdest string) {
	var d tuner.Dropper = tuner.ProcDropper{}
	if fadvise {
		d = tuner.FadviseDropper{Paths: []string{src, dst}}
	} else if os.Geteuid() != 0 {
		Die("dropping the page cache needs root; rerun with sudo or use --fadvise")
	}

	log, err := logger.NewLogger(logdest, logger.LOG_DEBUG, Z,
		logger.Ldate|logger.Ltime|logger.Lmicroseconds)
	if err != nil {
		Die("can't create logger: %s", err)
	}

	t, err := tuner.New(src, dst,
		tuner.WithDropper(d),
		tuner.WithLogger(log),
		tuner.WithProgress(progress))
	if err != nil {
		Die("%s", err)
	}

	res, err := t.Run()
	if err != nil {
		Die("%s", err)
	}

	tuner.Report(os.Stdout, res)
	log.Close()
}

func usage(fs *flag.FlagSet) {
	fmt.Printf(usageStr, Z, Z)
	fs.PrintDefaults()
	os.Exit(1)
}

var usageStr = `%s - copy large files fast with striped, zero-copy workers.

The file is tiled with fixed size blocks; each worker moves only the
blocks it owns using an in-kernel transfer, so file data never passes
through user space. With -o, every worker-count/block-size combination
is benchmarked on a cold page cache and the best settings reported.

Usage: %s [options] src dst

Options:
`
