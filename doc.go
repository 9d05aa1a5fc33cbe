// Package contiguous deserializes a flat byte buffer into a statically
// typed record whose dynamic arrays alias the same buffer instead of
// each allocating their own backing storage. Deserialize and
// DeserializeCopy are the two entry points; both run the same two
// passes internally — a size calculator (size.go) followed by a
// branching slicer (slice.go), both walking internal/descriptor's type
// descriptors with internal/wire's primitives — and differ
// only in whether the caller's input buffer is reused in place or left
// untouched.
package contiguous
