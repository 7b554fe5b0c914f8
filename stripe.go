// stripe.go - block striping arithmetic
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

// A file of size S is tiled with blocks of size B; block k lives at
// [k*B, min((k+1)*B, S)). Worker i of P workers owns every block
// k == i (mod P). The union of all stripes covers [0, S) exactly once:
// no overlap, no gap, for any P >= 1, B >= 1, S >= 0.

// Block size tier exponents: tier s is 64 KiB * 2^(s-6).
const (
	MinShift uint = 6  // 64 KiB
	MaxShift uint = 10 // 1 MiB
)

const _baseBlock int64 = 64 * 1024

// BlockSize maps a tier exponent to the block size in bytes:
// 64 KiB * 2^(shift-6). The shift must be at least MinShift.
func BlockSize(shift uint) int64 {
	return _baseBlock << (shift - MinShift)
}

// one contiguous block owned by a worker
type stripeRange struct {
	off int64 // byte offset in the file
	n   int64 // length; only the final block may be short
}

// stripeRanges returns the ordered list of blocks owned by worker
// 'idx' of 'nworkers' over a file of 'fsz' bytes tiled with 'bsz'
// byte blocks. The worker copy loop walks the same arithmetic
// incrementally; this form exists for callers that want the explicit
// range list.
func stripeRanges(idx, nworkers int, bsz, fsz int64) []stripeRange {
	var rr []stripeRange

	skip := int64(nworkers) * bsz
	for off := int64(idx) * bsz; off < fsz; off += skip {
		rr = append(rr, stripeRange{off, min(bsz, fsz-off)})
	}
	return rr
}
