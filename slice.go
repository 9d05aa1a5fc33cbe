package contiguous

import (
	"unsafe"

	"github.com/rawbytedev/contiguous/internal/descriptor"
	"github.com/rawbytedev/contiguous/internal/wire"
)

// slicer carries Pass 2's two regions: payload is buf[0:dataLen], the
// in-stream image; headers is the bump-forward cursor into
// buf[dataLen:dataLen+extraLen], the materialised branched-header
// region (spec §4.2).
type slicer struct {
	buf       []byte
	headerPos int
}

// bufAt yields the address of s.buf[i] without indexing through the
// slice: &s.buf[i] bounds-checks against len(s.buf) even though a
// zero-length slice/string header only ever needs a valid one-past-
// the-end base pointer, never a dereferenceable byte there. Every
// empty trailing dynamic array or string hits exactly that case.
func (s *slicer) bufAt(i int) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(s.buf)), uintptr(i))
}

// sliceTop runs Pass 2 over a whole record at the front of buf. dataLen
// is Pass 1's data_len; the header region starts there and runs for
// extraLen bytes.
func sliceTop(desc *descriptor.Descriptor, buf []byte, dataLen int) error {
	s := &slicer{buf: buf, headerPos: dataLen}
	base := unsafe.Pointer(unsafe.SliceData(buf))
	pos := int(desc.Size)
	return sliceRecord(desc, base, &pos, s)
}

// sliceRecord walks T's fields in declared order over payload starting
// at *pos, per spec §4.2's slice_record routine. base is the address of
// the record's own flat image (already valid: it is either the top
// buffer's front, or a position inside an already-bound array/slice).
func sliceRecord(desc *descriptor.Descriptor, base unsafe.Pointer, pos *int, s *slicer) error {
	if !desc.HasIndirections {
		return nil
	}
	for _, f := range desc.Fields {
		fieldAddr := fieldPointer(base, f.Offset)
		if err := sliceField(f.Desc, fieldAddr, pos, s); err != nil {
			return err
		}
	}
	return nil
}

// sliceField dispatches on one field's kind. Elements of static arrays
// and of dynamic arrays are dispatched through this same function
// (spec §4.2's slice_sub_arrays is this function applied per element).
func sliceField(desc *descriptor.Descriptor, fieldAddr unsafe.Pointer, pos *int, s *slicer) error {
	switch desc.Kind {
	case descriptor.KindScalar:
		return nil

	case descriptor.KindString:
		return sliceString(fieldAddr, pos, s)

	case descriptor.KindStruct:
		return sliceRecord(desc, fieldAddr, pos, s)

	case descriptor.KindArray:
		if !desc.Elem.HasIndirections {
			return nil
		}
		elemSize := desc.Elem.Size
		for i := 0; i < desc.Len; i++ {
			elemAddr := unsafe.Add(fieldAddr, uintptr(i)*elemSize)
			if err := sliceField(desc.Elem, elemAddr, pos, s); err != nil {
				return err
			}
		}
		return nil

	case descriptor.KindSlice:
		return sliceArray(desc, fieldAddr, pos, s)

	default:
		return nil
	}
}

// sliceArray is spec §4.2's slice_array: read the length word, then
// either bind directly into the payload (non-branched) or materialise
// element headers out of the reserved header region (branched).
func sliceArray(desc *descriptor.Descriptor, fieldAddr unsafe.Pointer, pos *int, s *slicer) error {
	length := int(wire.ReadWord(s.buf[*pos:]))
	*pos += wire.WordSize

	elem := desc.Elem
	if elem.Kind == descriptor.KindSlice {
		headerBytes := length * wire.SliceHeaderSize
		headerBase := s.bufAt(s.headerPos)
		wire.BindSlice(fieldAddr, headerBase, length)
		s.headerPos += headerBytes

		for i := 0; i < length; i++ {
			elemAddr := unsafe.Add(headerBase, uintptr(i)*wire.SliceHeaderSize)
			if err := sliceField(elem, elemAddr, pos, s); err != nil {
				return err
			}
		}
		return nil
	}

	dataBase := s.bufAt(*pos)
	wire.BindSlice(fieldAddr, dataBase, length)
	*pos += length * int(elem.Size)

	if elem.HasIndirections {
		elemSize := elem.Size
		for i := 0; i < length; i++ {
			elemAddr := unsafe.Add(dataBase, uintptr(i)*elemSize)
			if err := sliceField(elem, elemAddr, pos, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// sliceString binds a string field: a dynamic array of byte that never
// branches.
func sliceString(fieldAddr unsafe.Pointer, pos *int, s *slicer) error {
	length := int(wire.ReadWord(s.buf[*pos:]))
	*pos += wire.WordSize
	dataBase := s.bufAt(*pos)
	wire.BindString(fieldAddr, dataBase, length)
	*pos += length
	return nil
}
