// die.go -- die with an error message

package main

import (
	"fmt"
	"os"
)

// Die prints an error message to stderr and exits with a non-zero
// status.
func Die(f string, v ...interface{}) {
	warn(f, v...)
	os.Exit(1)
}

// Warn prints an error message to stderr
func Warn(f string, v ...interface{}) {
	warn(f, v...)
}

func warn(f string, v ...interface{}) {
	z := fmt.Sprintf("%s: %s", Z, f)
	s := fmt.Sprintf(z, v...)
	if n := len(s); n > 0 && s[n-1] != '\n' {
		s += "\n"
	}

	os.Stderr.WriteString(s)
	os.Stderr.Sync()
}
