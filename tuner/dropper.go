// dropper.go - page cache eviction for cold-cache trials
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

package tuner

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Dropper evicts cached file pages so the next trial reads from the
// underlying device instead of memory. A trial measured against a
// warm cache is not comparable to one measured cold; the tuner treats
// a failed Drop as fatal for exactly that reason.
type Dropper interface {
	Drop() error
}

const _dropCachesPath = "/proc/sys/vm/drop_caches"

// ProcDropper asks the kernel to drop every clean cached page,
// dentry and inode. Writing to /proc/sys/vm/drop_caches needs root.
type ProcDropper struct{}

// Drop flushes dirty pages and then evicts the page cache.
func (p ProcDropper) Drop() error {
	unix.Sync()
	if err := os.WriteFile(_dropCachesPath, []byte("3"), 0644); err != nil {
		return fmt.Errorf("drop caches: %w", err)
	}
	return nil
}

// FadviseDropper evicts the pages of specific files with
// posix_fadvise(2) DONTNEED. Unlike ProcDropper it needs no
// privilege, but it only evicts the files it is told about; pages the
// kernel cached on behalf of other files stay put.
type FadviseDropper struct {
	Paths []string
}

// Drop evicts the cached pages of every named file. Files that don't
// exist (yet) are skipped: the tuner removes the destination between
// trials.
func (f FadviseDropper) Drop() error {
	for _, nm := range f.Paths {
		if err := fadviseDontNeed(nm); err != nil {
			return fmt.Errorf("fadvise %s: %w", nm, err)
		}
	}
	return nil
}

var _ Dropper = ProcDropper{}
var _ Dropper = FadviseDropper{}

func skipMissing(err error) error {
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
