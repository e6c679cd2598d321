package model

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

const wordBits = 64

// PackedField stores fixed-width unsigned values packed into 64-bit words.
// An element never spans two words, so the trailing bits of a word may stay unused.
type PackedField struct {
	bits    int
	perWord int
	length  int
	mask    uint64
	words   []uint64
}

// NewPackedField allocates a field of length elements, each bits wide.
// It panics when bits is outside 1..32 or length is negative.
func NewPackedField(bits, length int) *PackedField {
	if bits < 1 || bits > 32 {
		panic(errors.Errorf("[NewPackedField] bits per element must be in 1..32, got %d", bits))
	}
	if length < 0 {
		panic(errors.Errorf("[NewPackedField] negative length %d", length))
	}
	perWord := wordBits / bits
	return &PackedField{
		bits:    bits,
		perWord: perWord,
		length:  length,
		mask:    (uint64(1) << bits) - 1,
		words:   make([]uint64, (length+perWord-1)/perWord),
	}
}

// Len returns the number of elements
func (f *PackedField) Len() int { return f.length }

// Bits returns the element width
func (f *PackedField) Bits() int { return f.bits }

// Words exposes the backing words for scanning. Callers must not write to them.
func (f *PackedField) Words() []uint64 { return f.words }

func (f *PackedField) locate(index int) (word int, shift uint) {
	if index < 0 || index >= f.length {
		panic(errors.Errorf("[PackedField] index %d out of bounds (0 until %d)", index, f.length))
	}
	return index / f.perWord, uint((index % f.perWord) * f.bits)
}

// Get returns the element at index
func (f *PackedField) Get(index int) int {
	w, shift := f.locate(index)
	return int((atomic.LoadUint64(&f.words[w]) >> shift) & f.mask)
}

// Set stores value (truncated to the element width) at index.
// Writers of different elements that share a word do not lose each other's updates.
func (f *PackedField) Set(index, value int) {
	w, shift := f.locate(index)
	mask := f.mask << shift
	bits := (uint64(value) << shift) & mask
	for {
		old := atomic.LoadUint64(&f.words[w])
		if atomic.CompareAndSwapUint64(&f.words[w], old, (old&^mask)|bits) {
			return
		}
	}
}

// Add adds delta to the element at index, wrapping within the element width.
func (f *PackedField) Add(index, delta int) {
	w, shift := f.locate(index)
	mask := f.mask << shift
	for {
		old := atomic.LoadUint64(&f.words[w])
		v := (int((old&mask)>>shift) + delta) & int(f.mask)
		if atomic.CompareAndSwapUint64(&f.words[w], old, (old&^mask)|(uint64(v)<<shift)) {
			return
		}
	}
}

// Clear zeroes every element
func (f *PackedField) Clear() {
	clear(f.words)
}
