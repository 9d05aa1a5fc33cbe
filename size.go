package contiguous

import (
	"reflect"

	"github.com/rawbytedev/contiguous/internal/descriptor"
	"github.com/rawbytedev/contiguous/internal/wire"
)

// RequiredSize is the size calculator's combined arity (spec §4.1):
// required_size<T>(input) -> data_len + extra_len.
func RequiredSize[T any](input []byte, opts ...Option) (int, error) {
	var extra int
	dataLen, err := RequiredSizeWithExtra[T](input, &extra, opts...)
	if err != nil {
		return 0, err
	}
	return dataLen + extra, nil
}

// RequiredSizeWithExtra is the size calculator's accumulating arity
// (spec §4.1): required_size<T>(input, &extra) -> data_len, adding
// the bytes required for materialised branched-array headers into
// *extra rather than returning them.
func RequiredSizeWithExtra[T any](input []byte, extra *int, opts ...Option) (int, error) {
	cfg := resolveOptions(opts)
	desc := descriptor.Of(reflect.TypeOf((*T)(nil)).Elem())
	return sizeOfRecord(desc, input, extra, cfg.maxLength, cfg.reusableErr)
}

// sizeOfRecord is Pass 1's entry point for one record type: it strips
// the flat sizeof(T) prefix, walks the remainder for dynamic-array
// length/payload blocks, and adds the prefix back before returning, per
// spec §4.1's postcondition (returned value >= sizeof(T)).
func sizeOfRecord(desc *descriptor.Descriptor, input []byte, extra *int, maxLen uint64, reuse bool) (int, error) {
	typeName := desc.Type.String()
	sizeofT := int(desc.Size)
	if err := enforceInputSize(reuse, typeName, uint64(len(input)), uint64(sizeofT)); err != nil {
		return 0, err
	}
	tail := input[sizeofT:]
	pos := 0
	if err := walkSize(desc, tail, &pos, extra, maxLen, reuse); err != nil {
		return 0, err
	}
	return pos + sizeofT, nil
}

// walkSize advances pos over tail for every field of desc that carries
// bytes beyond the flat prefix already accounted for by the caller
// (either the top-level sizeof(T), or a just-advanced
// len*sizeof(element) block for array elements). It never re-skips a
// prefix for nested records: their flat footprint is always already
// part of an ancestor's flat block, per spec §3's wire layout.
func walkSize(desc *descriptor.Descriptor, tail []byte, pos *int, extra *int, maxLen uint64, reuse bool) error {
	switch desc.Kind {
	case descriptor.KindScalar:
		return nil

	case descriptor.KindString:
		return sizeDynamicBytes(desc, tail, pos, maxLen, reuse)

	case descriptor.KindStruct:
		if !desc.HasIndirections {
			return nil
		}
		for _, f := range desc.Fields {
			if err := walkSize(f.Desc, tail, pos, extra, maxLen, reuse); err != nil {
				return err
			}
		}
		return nil

	case descriptor.KindArray:
		if !desc.Elem.HasIndirections {
			return nil
		}
		for i := 0; i < desc.Len; i++ {
			if err := walkSize(desc.Elem, tail, pos, extra, maxLen, reuse); err != nil {
				return err
			}
		}
		return nil

	case descriptor.KindSlice:
		return sizeDynamicArray(desc, tail, pos, extra, maxLen, reuse)

	default:
		return nil
	}
}

// readLength reads and validates the machine-word length prefix of a
// dynamic array, per spec §4.1's bounds policy: every length read is
// preceded by an input-length check, and the decoded length is checked
// against max_length before pos is trusted to advance further.
func readLength(typeName string, tail []byte, pos *int, maxLen uint64, reuse bool) (uint64, error) {
	if err := enforceInputSize(reuse, typeName, uint64(len(tail)-*pos), wire.WordSize); err != nil {
		return 0, err
	}
	length := wire.ReadWord(tail[*pos:])
	*pos += wire.WordSize
	if err := enforceSizeLimit(reuse, typeName, length, maxLen); err != nil {
		return 0, err
	}
	return length, nil
}

// sizeDynamicArray handles one KindSlice field: spec §4.1's dynamic-
// array case, including the branched-array special case.
func sizeDynamicArray(desc *descriptor.Descriptor, tail []byte, pos *int, extra *int, maxLen uint64, reuse bool) error {
	typeName := desc.Type.String()
	length, err := readLength(typeName, tail, pos, maxLen, reuse)
	if err != nil {
		return err
	}

	elem := desc.Elem
	if elem.Kind == descriptor.KindSlice {
		// Branched: the element's own slice header is not on the wire;
		// it must be materialised in the extra region, and the
		// element's own length/payload follow immediately, recursively.
		*extra += int(length) * wire.SliceHeaderSize
		for i := uint64(0); i < length; i++ {
			if err := walkSize(elem, tail, pos, extra, maxLen, reuse); err != nil {
				return err
			}
		}
		return nil
	}

	bytes := int(length) * int(elem.Size)
	if err := enforceInputSize(reuse, typeName, uint64(len(tail)-*pos), uint64(bytes)); err != nil {
		return err
	}
	*pos += bytes
	if elem.HasIndirections {
		for i := uint64(0); i < length; i++ {
			if err := walkSize(elem, tail, pos, extra, maxLen, reuse); err != nil {
				return err
			}
		}
	}
	return nil
}

// sizeDynamicBytes handles a string field: a dynamic array of byte that
// can never branch (byte has no indirections).
func sizeDynamicBytes(desc *descriptor.Descriptor, tail []byte, pos *int, maxLen uint64, reuse bool) error {
	typeName := desc.Type.String()
	length, err := readLength(typeName, tail, pos, maxLen, reuse)
	if err != nil {
		return err
	}
	if err := enforceInputSize(reuse, typeName, uint64(len(tail)-*pos), length); err != nil {
		return err
	}
	*pos += int(length)
	return nil
}
