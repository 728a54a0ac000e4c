/*Package ocam computes the pixel remapping tables of the OCAM2K EMCCD.

The OCAM2K is read out through eight amplifiers whose samples arrive at the
framegrabber interleaved pixel by pixel.  Each amplifier drains one eighth of
the sensor, half of them reading from the outside corner inward and the
bottom four scanning upward from the bottom edge.  The raw framegrabber image
is therefore a scrambled version of the sensor.

Two tables undo the scrambling:

	reverse[y, x] = raw linear index feeding sensor pixel (y, x)
	forward[r, c] = sensor linear index fed by raw pixel (r, c)

The reverse map is a gather table with the sensor's shape, the forward map is
a scatter table with the raw frame's shape.  Raw pixels that hold prescan or
duplicated samples are not referenced by the reverse map and are 0 in the
forward map.

Tables are produced for the full-frame (240x240) and 2x2 binned (120x120)
modes.  The raw frame always has 528 16-bit columns; the packing of two 8-bit
framegrabber samples into one 16-bit sample happens upstream.
*/
package ocam

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// NumAmplifiers is the number of parallel readout channels
	NumAmplifiers = 8

	// AmpCols is the number of raw columns clocked out of each amplifier per row
	AmpCols = 66

	// Prescan is the number of leading non-imaging columns of each amplifier
	Prescan = 6

	// RawCols is the width of the raw framegrabber image in 16-bit samples
	RawCols = NumAmplifiers * AmpCols
)

// Mode describes a readout mode of the sensor
type Mode struct {
	// Name is the human name of the mode, e.g. "full"
	Name string

	// ID is the number used in artifact names, ocam2kpixi_<ID>
	ID int

	// RawRows is the number of rows in the raw framegrabber image
	RawRows int

	// TrimTop is the number of leading non-imaging rows in each amplifier block
	TrimTop int

	// TrimBottom is the number of trailing non-imaging rows in each amplifier block
	TrimBottom int

	// Decimation is the horizontal decimation that discards duplicated samples.
	// 1 keeps every column, 2 keeps even columns only.
	Decimation int
}

var (
	// Full is the unbinned 240x240 mode
	Full = Mode{Name: "full", ID: 1, RawRows: 121, TrimTop: 1, TrimBottom: 0, Decimation: 1}

	// Binned is the 2x2 binned 120x120 mode.  Every imaging pixel is read
	// twice and the last row of each block is non-imaging.
	Binned = Mode{Name: "binned", ID: 3, RawRows: 62, TrimTop: 1, TrimBottom: 1, Decimation: 2}
)

// Modes returns every supported mode
func Modes() []Mode {
	return []Mode{Full, Binned}
}

// ModeByName looks up a mode by its name or artifact ID, case insensitive
func ModeByName(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes() {
		if s == m.Name || s == strconv.Itoa(m.ID) {
			return m, nil
		}
	}
	return Mode{}, errors.Errorf("unknown ocam mode %q", s)
}

// String implements fmt.Stringer
func (m Mode) String() string {
	return m.Name
}

// BlockRows is the number of imaging rows per amplifier
func (m Mode) BlockRows() int {
	return m.RawRows - m.TrimTop - m.TrimBottom
}

// BlockCols is the number of imaging columns per amplifier
func (m Mode) BlockCols() int {
	return (AmpCols - Prescan + m.Decimation - 1) / m.Decimation
}

// Height is the sensor image height
func (m Mode) Height() int {
	return 2 * m.BlockRows()
}

// Width is the sensor image width
func (m Mode) Width() int {
	return 4 * m.BlockCols()
}

// RawLen is the number of 16-bit samples in a raw frame
func (m Mode) RawLen() int {
	return m.RawRows * RawCols
}

// ForwardName is the artifact name of the forward map, e.g. ocam2kpixi_1
func (m Mode) ForwardName() string {
	return fmt.Sprintf("ocam2kpixi_%d", m.ID)
}

// ReverseName is the artifact name of the reverse map, e.g. ocam2kpixi_1_REV
func (m Mode) ReverseName() string {
	return m.ForwardName() + "_REV"
}
