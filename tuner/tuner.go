// tuner.go - find the fastest worker-count and block-size
//
// (c) 2025 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package tuner benchmarks striped zero-copy runs over a grid of
// worker-count multipliers and block-size tiers and ranks the results
// by elapsed time. Every trial starts on a cold page cache: the
// cache is dropped before each run and the destination is removed
// after it, so no trial inherits state from an earlier one.
package tuner

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/opencoff/go-logger"
	"github.com/opencoff/go-zcp"
	"github.com/schollz/progressbar/v3"
)

// High level design:
//
// * outer axis: workers-per-core multiplier 1..6; worker count for a
//   trial is multiplier * cores.
// * inner axis: block-size tiers 64 KiB .. 1 MiB (shift 6..10), in
//   that order.
// * each trial: drop the page cache (fatal if it fails), copy, record
//   the Result, remove the destination (fatal if it fails - a stale
//   destination would skew the next trial).
// * a hard cap bounds the total number of trials; hitting it truncates
//   the sweep with a warning instead of failing.

const (
	// workers-per-core multipliers swept
	_maxMult = 6

	// hard bound on the number of trials in one sweep
	_maxTrials = 1000
)

type copyFunc func(dst, src string, nworkers int, shift uint) (*zcp.Result, error)

func runCopy(dst, src string, nworkers int, shift uint) (*zcp.Result, error) {
	return zcp.Copy(dst, src, zcp.WithWorkers(nworkers), zcp.WithShift(shift))
}

type tuneopt struct {
	cores     int
	maxTrials int
	dropper   Dropper
	log       logger.Logger
	progress  bool

	copyFn copyFunc
}

func defaultTuneOpt() tuneopt {
	return tuneopt{
		cores:     runtime.NumCPU(),
		maxTrials: _maxTrials,
		dropper:   ProcDropper{},
		copyFn:    runCopy,
	}
}

// Option captures the various options for a tuning run.
type Option func(o *tuneopt)

// WithCores overrides the detected core count that worker-count
// multipliers are applied to.
func WithCores(n int) Option {
	return func(o *tuneopt) {
		if n > 0 {
			o.cores = n
		}
	}
}

// WithDropper sets the page-cache eviction capability used before
// every trial. The default needs root (ProcDropper).
func WithDropper(d Dropper) Option {
	return func(o *tuneopt) {
		o.dropper = d
	}
}

// WithLogger sends trial announcements and warnings to 'log' instead
// of a logger created on stdout.
func WithLogger(log logger.Logger) Option {
	return func(o *tuneopt) {
		o.log = log
	}
}

// WithProgress draws a progress bar on stderr while the sweep runs.
func WithProgress(yes bool) Option {
	return func(o *tuneopt) {
		o.progress = yes
	}
}

// WithMaxTrials lowers the hard cap on the number of trials.
func WithMaxTrials(n int) Option {
	return func(o *tuneopt) {
		if n > 0 && n < _maxTrials {
			o.maxTrials = n
		}
	}
}

// withCopyFn substitutes the copy operation under test.
func withCopyFn(fp copyFunc) Option {
	return func(o *tuneopt) {
		o.copyFn = fp
	}
}

// Tuner sweeps copy configurations for one source/destination pair.
type Tuner struct {
	tuneopt

	src, dst string
}

// New makes a Tuner that will benchmark copies of 'src' to 'dst'.
// The destination is clobbered and finally removed by the sweep.
func New(src, dst string, opt ...Option) (*Tuner, error) {
	o := defaultTuneOpt()
	for _, fp := range opt {
		fp(&o)
	}

	if o.log == nil {
		log, err := logger.NewLogger("STDOUT", logger.LOG_DEBUG, "tuner",
			logger.Ldate|logger.Ltime|logger.Lmicroseconds)
		if err != nil {
			return nil, fmt.Errorf("tuner: logger: %w", err)
		}
		o.log = log
	}

	t := &Tuner{
		tuneopt: o,
		src:     src,
		dst:     dst,
	}
	return t, nil
}

// Run performs the grid sweep and returns every trial's Result,
// sorted ascending by elapsed time (stable: ties keep their trial
// order). Any cache-drop, copy or cleanup failure aborts the sweep.
func (t *Tuner) Run() ([]zcp.Result, error) {
	total := _maxMult * int(zcp.MaxShift-zcp.MinShift+1)
	if t.maxTrials < total {
		total = t.maxTrials
	}

	var bar *progressbar.ProgressBar
	if t.progress {
		bar = makeProgressBar(total)
	}

	results := make([]zcp.Result, 0, total)

sweep:
	for m := 1; m <= _maxMult; m++ {
		nw := m * t.cores

		for s := zcp.MinShift; s <= zcp.MaxShift; s++ {
			if len(results) >= t.maxTrials {
				t.log.Warn("trial cap %d reached; truncating the sweep", t.maxTrials)
				break sweep
			}

			bsz := zcp.BlockSize(s)
			t.log.Info("Testing with -p %d and -s %d (%d KiB)", nw, s, bsz/1024)
			if bar != nil {
				bar.Describe(fmt.Sprintf("p=%d s=%d", nw, s))
			}

			if err := t.dropper.Drop(); err != nil {
				return nil, fmt.Errorf("tuner: %w", err)
			}

			r, err := t.copyFn(t.dst, t.src, nw, s)
			if err != nil {
				return nil, fmt.Errorf("tuner: trial -p %d -s %d: %w", nw, s, err)
			}
			results = append(results, *r)
			t.log.Debug("trial -p %d -s %d: %.2f secs (%.2f MiB/s)", nw, s,
				r.Elapsed, r.MiBps())

			if err = os.Remove(t.dst); err != nil {
				return nil, fmt.Errorf("tuner: remove %s: %w", t.dst, err)
			}

			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	sortResults(results)
	return results, nil
}

// sortResults orders trials fastest first; equally fast trials stay
// in the order they ran.
func sortResults(res []zcp.Result) {
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Elapsed < res[j].Elapsed
	})
}

func makeProgressBar(n int) *progressbar.ProgressBar {
	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription("tuning"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
