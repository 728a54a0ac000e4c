// this file contains the table type and the remapping loops consumers run with it

package ocam

import "github.com/pkg/errors"

// Map is a row-major 2D array of int32
type Map struct {
	Rows int
	Cols int
	Pix  []int32
}

// NewMap returns a zeroed Map of the given shape
func NewMap(rows, cols int) Map {
	return Map{Rows: rows, Cols: cols, Pix: make([]int32, rows*cols)}
}

// At returns the element at (r, c)
func (m Map) At(r, c int) int32 {
	return m.Pix[r*m.Cols+c]
}

// Set writes v at (r, c)
func (m Map) Set(r, c int, v int32) {
	m.Pix[r*m.Cols+c] = v
}

// Shape returns (Rows, Cols)
func (m Map) Shape() [2]int {
	return [2]int{m.Rows, m.Cols}
}

// ValidMask flags the raw pixels a reverse map reads from.  n is the
// length of the raw frame.
func ValidMask(rev Map, n int) []bool {
	mask := make([]bool, n)
	for _, idx := range rev.Pix {
		if idx >= 0 && int(idx) < n {
			mask[idx] = true
		}
	}
	return mask
}

// Gather produces a sensor frame from a raw frame with the reverse map,
// out[y, x] = raw[rev[y, x]]
func Gather(raw []uint16, rev Map) ([]uint16, error) {
	out := make([]uint16, len(rev.Pix))
	for k, idx := range rev.Pix {
		if idx < 0 || int(idx) >= len(raw) {
			return nil, errors.Errorf("reverse map entry %d is %d, raw frame has %d samples", k, idx, len(raw))
		}
		out[k] = raw[idx]
	}
	return out, nil
}

// Scatter produces a sensor frame of length npix from a raw frame with the
// forward map, out[fwd[r, c]] = raw[r, c] for each raw pixel flagged in
// valid.  The raw frame may be a leading stripe of the full frame, which
// lets a consumer remap rows as they arrive.
func Scatter(raw []uint16, fwd Map, valid []bool, npix int) ([]uint16, error) {
	if len(raw) > len(fwd.Pix) || len(raw) > len(valid) {
		return nil, errors.Errorf("raw frame has %d samples, forward map %d and mask %d", len(raw), len(fwd.Pix), len(valid))
	}
	out := make([]uint16, npix)
	for i, v := range raw {
		if !valid[i] {
			continue
		}
		k := fwd.Pix[i]
		if k < 0 || int(k) >= npix {
			return nil, errors.Errorf("forward map entry %d is %d, sensor frame has %d pixels", i, k, npix)
		}
		out[k] = v
	}
	return out, nil
}
