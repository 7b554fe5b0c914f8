// worker.go - per-worker striped copy loop
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
	"context"
	"fmt"
	"os"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/time/rate"
)

// copier holds what every worker needs to copy its stripe. The
// limiter and counter are shared across workers; everything else is
// read-only after Copy sets it up.
type copier struct {
	src, dst string
	nworkers int
	bsz      int64
	fsz      int64

	lim *rate.Limiter
	nw  *xsync.Counter
}

// copyStripe copies every block owned by worker 'idx': block k for
// all k == idx (mod nworkers). The worker opens its own handles, so
// the explicit offsets passed to the transfer primitive are the only
// write positioning there is - nothing shares a file cursor.
func (c *copier) copyStripe(idx int) error {
	sfd, err := os.Open(c.src)
	if err != nil {
		return &CopyError{"open-src", c.src, c.dst, err}
	}
	defer sfd.Close()

	dfd, err := os.OpenFile(c.dst, os.O_WRONLY, 0)
	if err != nil {
		return &CopyError{"open-dst", c.src, c.dst, err}
	}

	err = c.copyBlocks(dfd, sfd, idx)

	// close errors on the written side are write errors
	if cerr := dfd.Close(); cerr != nil && err == nil {
		err = &CopyError{"close-dst", c.src, c.dst, cerr}
	}
	return err
}

// copyBlocks moves every block of worker idx's stripe between the
// open handle pair.
func (c *copier) copyBlocks(dfd, sfd *os.File, idx int) error {
	// both cursors start at this worker's first block; after each
	// block both skip over the blocks the other workers own.
	off := int64(idx) * c.bsz
	woff := off
	skip := int64(c.nworkers-1) * c.bsz

	for off < c.fsz {
		rem := min(c.bsz, c.fsz-off)

		if c.lim != nil {
			if err := c.lim.WaitN(context.Background(), int(rem)); err != nil {
				return &CopyError{"ratelimit", c.src, c.dst, err}
			}
		}

		// one block; the transfer may move fewer bytes than asked
		// and is resumed from the kernel-advanced offsets.
		for rem > 0 {
			n, err := sys_transfer(dfd, sfd, &off, &woff, rem)
			if err != nil {
				return &CopyError{_transferOp, c.src, c.dst, err}
			}
			if n == 0 {
				// bytes remain but the source has none: it
				// shrank underneath us.
				return &CopyError{_transferOp, c.src, c.dst,
					fmt.Errorf("zero sized transfer")}
			}

			rem -= n
			if c.nw != nil {
				c.nw.Add(n)
			}
		}

		off += skip
		woff += skip
	}
	return nil
}
