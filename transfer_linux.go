// transfer_linux.go - Linux zero-copy block transfer
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

//go:build linux

package zcp

import (
	"os"

	"golang.org/x/sys/unix"
)

const _transferOp = "copy_file_range"

// sys_transfer moves up to 'cnt' bytes from src at *roff to dst at
// *woff without staging them in user memory; copy_file_range(2) is
// available on all linuxes. The kernel advances both offsets by the
// bytes moved. Interrupted and would-block conditions are retried
// here; every other error is the caller's problem.
func sys_transfer(dst, src *os.File, roff, woff *int64, cnt int64) (int64, error) {
	d := int(dst.Fd())
	s := int(src.Fd())

	for {
		n, err := unix.CopyFileRange(s, roff, d, woff, int(cnt), 0)
		switch err {
		case nil:
			return int64(n), nil

		case unix.EINTR, unix.EAGAIN:
			continue

		default:
			return 0, err
		}
	}
}
