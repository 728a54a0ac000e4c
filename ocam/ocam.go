package ocam

import (
	"github.com/camstack/camstack/util"
	"github.com/pkg/errors"
)

var (
	// topOrder is the left-to-right amplifier order along the top half
	topOrder = [4]int{0, 1, 2, 3}

	// bottomOrder is the left-to-right amplifier order along the bottom half
	bottomOrder = [4]int{7, 6, 5, 4}

	// hflip marks amplifiers that clock out right to left
	hflip = [NumAmplifiers]bool{true, false, true, false, false, true, false, true}
)

// Tables holds the pair of remapping tables for one mode
type Tables struct {
	Mode Mode

	// Reverse has the sensor's shape and holds raw linear indices
	Reverse Map

	// Forward has the raw frame's shape and holds sensor linear indices
	Forward Map
}

// AmplifierGrid returns one block per amplifier, each of shape
// (RawRows, AmpCols), holding the raw linear index of every sample the
// amplifier clocks out: amps[i][r, c] = NumAmplifiers*(r*AmpCols + c) + i.
// The blocks share a single backing sequence.
func AmplifierGrid(m Mode) []Block {
	seq := util.ArangeInt32(int32(NumAmplifiers * m.RawRows * AmpCols))
	amps := make([]Block, NumAmplifiers)
	for i := range amps {
		amps[i] = Block{
			Rows:      m.RawRows,
			Cols:      AmpCols,
			pix:       seq,
			offset:    i,
			rowStride: NumAmplifiers * AmpCols,
			colStride: NumAmplifiers,
		}
	}
	return amps
}

// Trim drops the prescan rows and columns of each amplifier block and, for
// modes with horizontal decimation, the duplicated samples
func Trim(m Mode, amps []Block) ([]Block, error) {
	if len(amps) != NumAmplifiers {
		return nil, errors.Errorf("%s: trim needs %d amplifier blocks, got %d", m, NumAmplifiers, len(amps))
	}
	want := [2]int{m.BlockRows(), m.BlockCols()}
	out := make([]Block, len(amps))
	for i, a := range amps {
		if a.Rows != m.RawRows || a.Cols != AmpCols {
			return nil, &ShapeError{Mode: m.Name, Stage: "amplifier grid", Want: [2]int{m.RawRows, AmpCols}, Got: a.Shape()}
		}
		b := a.Sub(m.TrimTop, a.Rows-m.TrimBottom, Prescan, a.Cols)
		b = b.Decimate(m.Decimation)
		if b.Shape() != want {
			return nil, &ShapeError{Mode: m.Name, Stage: "trim", Want: want, Got: b.Shape()}
		}
		out[i] = b
	}
	return out, nil
}

// Mosaic stitches trimmed amplifier blocks into the reverse map.
// The top half is amps 0..3 left to right, the bottom half amps 7..4, with
// the right-to-left amplifiers flipped horizontally and the whole bottom
// half flipped vertically.
func Mosaic(m Mode, amps []Block) (Map, error) {
	if len(amps) != NumAmplifiers {
		return Map{}, errors.Errorf("%s: mosaic needs %d amplifier blocks, got %d", m, NumAmplifiers, len(amps))
	}
	br, bc := m.BlockRows(), m.BlockCols()
	for _, a := range amps {
		if a.Shape() != [2]int{br, bc} {
			return Map{}, &ShapeError{Mode: m.Name, Stage: "mosaic input", Want: [2]int{br, bc}, Got: a.Shape()}
		}
	}

	rev := NewMap(2*br, 4*bc)
	for q := 0; q < 4; q++ {
		top := orient(amps, topOrder[q])
		bot := orient(amps, bottomOrder[q]).FlipV()
		x0 := q * bc
		for r := 0; r < br; r++ {
			for c := 0; c < bc; c++ {
				rev.Set(r, x0+c, top.At(r, c))
				rev.Set(br+r, x0+c, bot.At(r, c))
			}
		}
	}

	if rev.Shape() != [2]int{m.Height(), m.Width()} {
		return Map{}, &ShapeError{Mode: m.Name, Stage: "mosaic", Want: [2]int{m.Height(), m.Width()}, Got: rev.Shape()}
	}
	return rev, nil
}

func orient(amps []Block, i int) Block {
	if hflip[i] {
		return amps[i].FlipH()
	}
	return amps[i]
}

// Invert turns a reverse map into the forward map.  Raw pixels that no
// sensor pixel reads from are left at zero.
func Invert(m Mode, rev Map) (Map, error) {
	if rev.Shape() != [2]int{m.Height(), m.Width()} {
		return Map{}, &ShapeError{Mode: m.Name, Stage: "invert input", Want: [2]int{m.Height(), m.Width()}, Got: rev.Shape()}
	}
	fwd := NewMap(m.RawRows, RawCols)
	// owner holds sensor index + 1 so zero means unclaimed
	owner := make([]int, len(fwd.Pix))
	for k, idx := range rev.Pix {
		if idx < 0 || int(idx) >= len(fwd.Pix) {
			return Map{}, errors.Errorf("%s: sensor pixel %d maps to raw index %d, outside [0, %d)", m, k, idx, len(fwd.Pix))
		}
		if owner[idx] != 0 {
			return Map{}, &CollisionError{Mode: m.Name, RawIndex: int(idx), First: owner[idx] - 1, Second: k}
		}
		owner[idx] = k + 1
		fwd.Pix[idx] = int32(k)
	}
	return fwd, nil
}

// Generate builds both tables for a mode
func Generate(m Mode) (Tables, error) {
	amps, err := Trim(m, AmplifierGrid(m))
	if err != nil {
		return Tables{}, err
	}
	rev, err := Mosaic(m, amps)
	if err != nil {
		return Tables{}, err
	}
	fwd, err := Invert(m, rev)
	if err != nil {
		return Tables{}, err
	}
	return Tables{Mode: m, Reverse: rev, Forward: fwd}, nil
}

// Validate checks the shapes of a pair of tables, that the reverse map is
// injective and in range, and that the forward map inverts it
func Validate(t Tables) error {
	m := t.Mode
	if want := [2]int{m.Height(), m.Width()}; t.Reverse.Shape() != want {
		return &ShapeError{Mode: m.Name, Stage: "reverse map", Want: want, Got: t.Reverse.Shape()}
	}
	if want := [2]int{m.RawRows, RawCols}; t.Forward.Shape() != want {
		return &ShapeError{Mode: m.Name, Stage: "forward map", Want: want, Got: t.Forward.Shape()}
	}
	owner := make([]int, m.RawLen())
	for k, idx := range t.Reverse.Pix {
		if idx < 0 || int(idx) >= len(owner) {
			return errors.Errorf("%s: reverse map entry %d is %d, outside [0, %d)", m, k, idx, len(owner))
		}
		if owner[idx] != 0 {
			return &CollisionError{Mode: m.Name, RawIndex: int(idx), First: owner[idx] - 1, Second: k}
		}
		owner[idx] = k + 1
		if got := t.Forward.Pix[idx]; got != int32(k) {
			return errors.Errorf("%s: forward map at raw (%d, %d) is %d, expected %d",
				m, int(idx)/RawCols, int(idx)%RawCols, got, k)
		}
	}
	return nil
}
