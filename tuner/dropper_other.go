// dropper_other.go - fadvise stub for platforms without it
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

package tuner

import (
	"fmt"
	"runtime"
)

func fadviseDontNeed(nm string) error {
	return fmt.Errorf("fadvise: not supported on %s", runtime.GOOS)
}
