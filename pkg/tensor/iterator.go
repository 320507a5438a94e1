package tensor

// Iterator walks a Tensor3 in storage order: frontal slice by frontal slice,
// column-major within each slice. It mirrors a forward iterator pair: a
// begin iterator starts at the first element of slice 0, an end iterator sits
// at the end-of-slice marker of the last slice and must never be
// dereferenced.
//
// Equality compares the owning tensor and the absolute position only; the
// slice index is deliberately ignored so that an iterator that has walked off
// the last slice compares equal to a purpose-built end iterator.
type Iterator struct {
	t *Tensor3

	slice    int // frontal slice index
	pos      int // absolute offset into the backing storage
	sliceEnd int // absolute end marker of the current slice
}

// Begin returns an iterator positioned at the first element of the tensor.
func (t *Tensor3) Begin() *Iterator {
	return &Iterator{
		t:        t,
		slice:    0,
		pos:      0,
		sliceEnd: t.rows * t.cols,
	}
}

// End returns the end sentinel: positioned at the last slice with the
// per-slice position set to that slice's end marker.
func (t *Tensor3) End() *Iterator {
	sliceLen := t.rows * t.cols
	return &Iterator{
		t:        t,
		slice:    t.slices - 1,
		pos:      t.slices * sliceLen,
		sliceEnd: t.slices * sliceLen,
	}
}

// Value returns the element at the current position.
func (it *Iterator) Value() float64 {
	return it.t.data[it.pos]
}

// SetValue overwrites the element at the current position.
func (it *Iterator) SetValue(v float64) {
	it.t.data[it.pos] = v
}

// Next advances the iterator one element. When the current slice is
// exhausted and more slices remain, it moves to the start of the next slice.
// Advancing a zero-value iterator is a usage error.
func (it *Iterator) Next() error {
	if it.t == nil {
		return ErrNilTensor
	}
	if it.pos != it.sliceEnd {
		it.pos++
	}
	if it.pos == it.sliceEnd && it.slice+1 < it.t.slices {
		it.slice++
		it.sliceEnd += it.t.rows * it.t.cols
	}
	return nil
}

// Equal reports whether both iterators refer to the same tensor and the same
// underlying position. The slice index is not compared.
func (it *Iterator) Equal(o *Iterator) bool {
	return it.t == o.t && it.pos == o.pos
}
