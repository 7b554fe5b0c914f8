// report.go - ranked trial report
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
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/opencoff/go-zcp"
)

// Report writes the fastest-5 and slowest-5 trials of a sorted sweep
// to 'w'. With fewer than 5 trials, both tables show what exists.
// 'res' must be the slice returned by Run (ascending elapsed time).
func Report(w io.Writer, res []zcp.Result) {
	if len(res) == 0 {
		fmt.Fprintln(w, "no trials to report")
		return
	}

	n := min(5, len(res))
	bold := color.New(color.Bold)

	_, _ = bold.Fprintln(w, "\nFastest 5 runs:")
	writeTable(w, res[:n])

	// slowest first
	slow := make([]zcp.Result, 0, n)
	for i := 0; i < n; i++ {
		slow = append(slow, res[len(res)-1-i])
	}

	_, _ = bold.Fprintln(w, "\nSlowest 5 runs:")
	writeTable(w, slow)
}

func writeTable(w io.Writer, rr []zcp.Result) {
	tbl := tablewriter.NewWriter(w)
	tbl.Header("Run", "Workers", "Shift", "Block KiB", "Seconds")

	for i := range rr {
		r := &rr[i]
		_ = tbl.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Workers),
			fmt.Sprintf("%d", r.Shift),
			fmt.Sprintf("%d", r.BlockSize/1024),
			fmt.Sprintf("%.2f", r.Elapsed),
		)
	}
	_ = tbl.Render()
}
