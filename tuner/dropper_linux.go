// dropper_linux.go - fadvise based page eviction
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

package tuner

import (
	"os"

	"golang.org/x/sys/unix"
)

// fadviseDontNeed tells the kernel the whole of file 'nm' won't be
// needed. Dirty pages survive DONTNEED, so the file is synced first.
func fadviseDontNeed(nm string) error {
	fd, err := os.Open(nm)
	if err != nil {
		return skipMissing(err)
	}
	defer fd.Close()

	if err = fd.Sync(); err != nil {
		return err
	}
	return unix.Fadvise(int(fd.Fd()), 0, 0, unix.FADV_DONTNEED)
}
