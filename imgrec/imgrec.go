// Package imgrec saves remapping tables to disk as FITS images and loads them back.
package imgrec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/astrogo/fitsio"
	"github.com/pkg/errors"

	"github.com/camstack/camstack/ocam"
)

const (
	// KindReverse is the MAPKIND card value of a reverse (gather) map
	KindReverse = "REV"

	// KindForward is the MAPKIND card value of a forward (scatter) map
	KindForward = "FWD"
)

// Recorder writes tables into a folder.  Files are written to a temporary
// sibling and renamed into place, so a reader never sees a partial file.
// It is not thread safe.
type Recorder struct {
	// Root is the folder files are written to, the working directory if empty
	Root string
}

// Path returns the file path for an artifact name
func (r *Recorder) Path(name string) string {
	return filepath.Join(r.root(), name+".fits")
}

func (r *Recorder) root() string {
	if r.Root == "" {
		return "."
	}
	return r.Root
}

// mkDir makes the folder and returns it
func (r *Recorder) mkDir() (string, error) {
	fldr := r.root()
	err := os.MkdirAll(fldr, 0777)
	return fldr, err
}

// WriteMap writes m as a 32-bit integer FITS image named name, replacing any
// existing file.  It returns the path written.
func (r *Recorder) WriteMap(name string, m ocam.Map, metadata []fitsio.Card) (string, error) {
	fldr, err := r.mkDir()
	if err != nil {
		return "", errors.Wrapf(err, "creating folder %s", fldr)
	}
	fn := r.Path(name)
	fid, err := os.CreateTemp(fldr, "."+name+".*.tmp")
	if err != nil {
		return "", errors.Wrapf(err, "creating temporary file for %s", fn)
	}
	tmp := fid.Name()

	err = WriteFits(fid, metadata, m)
	if err == nil {
		err = fid.Sync()
	}
	if cerr := fid.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		// CreateTemp makes the file 0600
		err = os.Chmod(tmp, 0644)
	}
	if err == nil {
		err = os.Rename(tmp, fn)
	}
	if err != nil {
		os.Remove(tmp)
		return "", errors.Wrapf(err, "writing %s", fn)
	}
	return fn, nil
}

// WriteTables writes the reverse then forward map of t.  If either write
// fails, both files of the mode are removed so the folder never holds
// tables from two different runs.
func (r *Recorder) WriteTables(t ocam.Tables) ([]string, error) {
	m := t.Mode
	jobs := []struct {
		name string
		kind string
		data ocam.Map
	}{
		{m.ReverseName(), KindReverse, t.Reverse},
		{m.ForwardName(), KindForward, t.Forward},
	}
	written := make([]string, 0, len(jobs))
	for _, job := range jobs {
		fn, err := r.WriteMap(job.name, job.data, headerCards(m, job.kind))
		if err != nil {
			for _, j := range jobs {
				os.Remove(r.Path(j.name))
			}
			return nil, errors.Wrapf(err, "%s", m)
		}
		written = append(written, fn)
	}
	return written, nil
}

// ReadTables loads the pair of tables for a mode from the folder
func (r *Recorder) ReadTables(m ocam.Mode) (ocam.Tables, error) {
	rev, err := ReadMap(r.Path(m.ReverseName()))
	if err != nil {
		return ocam.Tables{}, err
	}
	fwd, err := ReadMap(r.Path(m.ForwardName()))
	if err != nil {
		return ocam.Tables{}, err
	}
	return ocam.Tables{Mode: m, Reverse: rev, Forward: fwd}, nil
}

func headerCards(m ocam.Mode, kind string) []fitsio.Card {
	return []fitsio.Card{
		{Name: "OCAMMODE", Value: m.Name, Comment: "sensor readout mode"},
		{Name: "MAPKIND", Value: kind, Comment: "REV: sensor->raw index, FWD: raw->sensor index"},
		{Name: "RAWROWS", Value: m.RawRows, Comment: "rows in the raw framegrabber image"},
		{Name: "RAWCOLS", Value: ocam.RawCols, Comment: "16-bit columns in the raw framegrabber image"},
	}
}

// WriteFits streams a single 2D int32 image to w
func WriteFits(w io.Writer, metadata []fitsio.Card, m ocam.Map) error {
	if len(m.Pix) != m.Rows*m.Cols {
		return fmt.Errorf("map of shape (%d, %d) holds %d pixels", m.Rows, m.Cols, len(m.Pix))
	}
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()
	// NAXIS1 is the fastest varying axis
	im := fitsio.NewImage(32, []int{m.Cols, m.Rows})
	defer im.Close()
	err = im.Header().Append(metadata...)
	if err != nil {
		return err
	}
	err = im.Write(m.Pix)
	if err != nil {
		return err
	}
	return fits.Write(im)
}

// ReadMap reads the primary image of a FITS file as a 2D int32 map
func ReadMap(path string) (ocam.Map, error) {
	fid, err := os.Open(path)
	if err != nil {
		return ocam.Map{}, err
	}
	defer fid.Close()
	m, err := ReadFits(fid)
	if err != nil {
		return ocam.Map{}, errors.Wrapf(err, "reading %s", path)
	}
	return m, nil
}

// ReadFits decodes the primary image of a FITS stream as a 2D int32 map
func ReadFits(r io.Reader) (ocam.Map, error) {
	fits, err := fitsio.Open(r)
	if err != nil {
		return ocam.Map{}, err
	}
	defer fits.Close()
	img, ok := fits.HDU(0).(fitsio.Image)
	if !ok {
		return ocam.Map{}, errors.New("primary HDU is not an image")
	}
	hdr := img.Header()
	if bp := hdr.Bitpix(); bp != 32 {
		return ocam.Map{}, errors.Errorf("expected BITPIX 32, got %d", bp)
	}
	axes := hdr.Axes()
	if len(axes) != 2 {
		return ocam.Map{}, errors.Errorf("expected a 2D image, got %d axes", len(axes))
	}
	m := ocam.NewMap(axes[1], axes[0])
	err = img.Read(&m.Pix)
	if err != nil {
		return ocam.Map{}, err
	}
	return m, nil
}
