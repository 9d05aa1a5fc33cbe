package contiguous

import "unsafe"

// fieldPointer is the field-offset accessor of spec §4.5: given a
// record's base address and a field's compile-time byte offset, it
// yields the field's address.
func fieldPointer(base unsafe.Pointer, offset uintptr) unsafe.Pointer {
	return unsafe.Add(base, offset)
}

// growStomp grows buf to length n. If buf's existing capacity already
// covers n, the grown tail is whatever bytes were already sitting in
// that capacity — it is not zeroed. This is the Go-native reading of
// spec §4.5's "enable-stomping" helper: Go's allocator always zeroes a
// fresh make(), so the only place stomping has teeth is reusing
// capacity the caller already owns. When the existing capacity is
// insufficient, a fresh allocation is unavoidable (and is zeroed by the
// runtime, which is then immediately overwritten during Pass 2).
func growStomp(buf []byte, n int) []byte {
	if cap(buf) >= n {
		return buf[:n]
	}
	grown := make([]byte, n)
	copy(grown, buf)
	return grown
}

// zeroTail clears buf[from:]. Used by the copy entry point to satisfy
// spec §9's resolved Open Question: dst[end_copy..] is always
// zero-filled, even when the source was larger than required.
func zeroTail(buf []byte, from int) {
	if from < len(buf) {
		clear(buf[from:])
	}
}
