// transfer_other.go - portable block transfer fallback
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

//go:build !linux

package zcp

import (
	"os"

	"golang.org/x/sys/unix"
)

const _transferOp = "pread/pwrite"

// sys_transfer moves up to 'cnt' bytes from src at *roff to dst at
// *woff and advances both offsets by the bytes moved. Platforms
// without a usable zero-copy primitive get a positioned read+write
// pair; the offset contract is identical to the linux path, the data
// merely takes a detour through this buffer.
func sys_transfer(dst, src *os.File, roff, woff *int64, cnt int64) (int64, error) {
	d := int(dst.Fd())
	s := int(src.Fd())

	buf := make([]byte, cnt)

	var n int
	var err error
	for {
		n, err = unix.Pread(s, buf, *roff)
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return 0, err
		}
		break
	}

	// source exhausted; the caller decides if that's expected
	if n == 0 {
		return 0, nil
	}

	wr := 0
	for wr < n {
		m, err := unix.Pwrite(d, buf[wr:n], *woff+int64(wr))
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return 0, err
		}
		wr += m
	}

	*roff += int64(n)
	*woff += int64(n)
	return int64(n), nil
}
