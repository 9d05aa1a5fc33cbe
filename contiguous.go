package contiguous

import "unsafe"

// Contiguous pairs a typed view over T with the single byte buffer that
// owns every byte reachable from it (spec §4.4). Passing it by value
// never copies the buffer: buf is a slice header, view aliases buf's
// storage.
type Contiguous[T any] struct {
	buf  []byte
	view *T
}

func wrap[T any](buf []byte) Contiguous[T] {
	if buf == nil {
		buf = []byte{}
	}
	return Contiguous[T]{
		buf:  buf,
		view: (*T)(unsafe.Pointer(unsafe.SliceData(buf))),
	}
}

// View returns the typed pointer into the owning buffer. Mutating
// scalar contents through it is safe; resizing any reachable dynamic
// array invalidates contiguity (spec §3, invariant 3).
func (c Contiguous[T]) View() *T {
	return c.view
}

// Buffer returns the single backing buffer every reachable array points
// into.
func (c Contiguous[T]) Buffer() []byte {
	return c.buf
}
