package ocam

// Block is a rectangular, strided view of pixel indices belonging to one
// amplifier.  Slicing and flipping a Block moves its offset and strides
// and never copies the backing data.
type Block struct {
	// Rows is the number of rows in the view
	Rows int

	// Cols is the number of columns in the view
	Cols int

	pix       []int32
	offset    int
	rowStride int
	colStride int
}

// At returns the element at (r, c)
func (b Block) At(r, c int) int32 {
	return b.pix[b.offset+r*b.rowStride+c*b.colStride]
}

// Shape returns (Rows, Cols)
func (b Block) Shape() [2]int {
	return [2]int{b.Rows, b.Cols}
}

// Sub returns the half-open window [r0, r1) x [c0, c1)
func (b Block) Sub(r0, r1, c0, c1 int) Block {
	if r0 < 0 || c0 < 0 || r1 > b.Rows || c1 > b.Cols || r1 < r0 || c1 < c0 {
		panic("ocam: block window out of range")
	}
	out := b
	out.offset = b.offset + r0*b.rowStride + c0*b.colStride
	out.Rows = r1 - r0
	out.Cols = c1 - c0
	return out
}

// Decimate keeps every step-th column starting from the first
func (b Block) Decimate(step int) Block {
	if step <= 1 {
		return b
	}
	out := b
	out.Cols = (b.Cols + step - 1) / step
	out.colStride = b.colStride * step
	return out
}

// FlipH reverses the column order
func (b Block) FlipH() Block {
	out := b
	if b.Cols > 0 {
		out.offset = b.offset + (b.Cols-1)*b.colStride
	}
	out.colStride = -b.colStride
	return out
}

// FlipV reverses the row order
func (b Block) FlipV() Block {
	out := b
	if b.Rows > 0 {
		out.offset = b.offset + (b.Rows-1)*b.rowStride
	}
	out.rowStride = -b.rowStride
	return out
}
