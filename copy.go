// copy.go - orchestrate a striped copy
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

package zcp

import (
	"fmt"
	"os"
	"time"

	"github.com/opencoff/go-fio"
	"github.com/opencoff/go-fio/clone"
	"golang.org/x/time/rate"
)

// Copy copies the regular file 'src' to 'dst' using concurrent
// striped workers and returns the timing of the run. The destination
// is created (or truncated) up front; each worker then opens its own
// handle pair and copies only the blocks it owns. Copy blocks until
// every worker is done.
//
// If any worker fails, Copy returns the joined errors of all failed
// workers; the destination must be considered garbage in that case.
func Copy(dst, src string, opt ...Option) (*Result, error) {
	o := defaultOptions()
	for _, fp := range opt {
		fp(&o)
	}

	if o.nworkers < 1 {
		return nil, &CopyError{"config", src, dst,
			fmt.Errorf("invalid worker count %d", o.nworkers)}
	}
	if o.bsz < 1 {
		return nil, &CopyError{"config", src, dst,
			fmt.Errorf("invalid block size %d", o.bsz)}
	}

	st, err := os.Stat(src)
	if err != nil {
		return nil, &CopyError{"stat-src", src, dst, err}
	}
	if !st.Mode().IsRegular() {
		return nil, &CopyError{"stat-src", src, dst,
			fmt.Errorf("not a regular file")}
	}
	fsz := st.Size()

	// create or truncate the destination; the workers open their own
	// handles, we hold none while the copy runs.
	dfd, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, &CopyError{"create-dst", src, dst, err}
	}
	if err = dfd.Close(); err != nil {
		return nil, &CopyError{"create-dst", src, dst, err}
	}

	c := &copier{
		src:      src,
		dst:      dst,
		nworkers: o.nworkers,
		bsz:      o.bsz,
		fsz:      fsz,
		nw:       o.nw,
	}
	if o.bwlimit > 0 {
		// burst of one block so a full block's tokens can be
		// claimed in one call
		c.lim = rate.NewLimiter(rate.Limit(o.bwlimit), int(o.bsz))
	}

	start := time.Now()

	wp := fio.NewWorkPool[int](o.nworkers, func(_ int, idx int) error {
		return c.copyStripe(idx)
	})
	for i := 0; i < o.nworkers; i++ {
		wp.Submit(i)
	}
	wp.Close()
	err = wp.Wait()

	elapsed := time.Since(start).Seconds()
	if err != nil {
		return nil, err
	}

	if o.preserve {
		if err = clone.Metadata(dst, src); err != nil {
			return nil, &CopyError{"metadata", src, dst, err}
		}
	}

	r := &Result{
		Workers:   o.nworkers,
		BlockSize: o.bsz,
		Elapsed:   elapsed,
		Shift:     o.shift,
		Size:      fsz,
	}
	return r, nil
}
