// Package clone provides the "separate module-level copy utility" the
// Contiguous handle itself defers to (the handle's own contract is
// construct/view/buffer only, no deep copy). Deep is grounded on
// DeserializeCopy's own shape: a fresh destination fed the source's
// backing buffer as input.
package clone

import "github.com/rawbytedev/contiguous"

// Deep returns an independent Contiguous[T] whose backing buffer is a
// fresh copy of src's: deserializing src's own buffer into a zero-value
// destination re-walks and re-binds every header rather than aliasing
// any of src's storage.
func Deep[T any](src contiguous.Contiguous[T], opts ...contiguous.Option) (contiguous.Contiguous[T], error) {
	var dst contiguous.Contiguous[T]
	return contiguous.DeserializeCopy[T](src.Buffer(), &dst, opts...)
}
