package contiguous

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/contiguous/internal/wire"
)

func TestDeserializeTrivialScalars(t *testing.T) {
	type Pair struct {
		A int32
		B int32
	}
	buf := []byte{0x2A, 0, 0, 0, 0x2B, 0, 0, 0}
	orig := unsafe.SliceData(buf)

	c, err := Deserialize[Pair](&buf)
	require.NoError(t, err)
	require.Equal(t, int32(42), c.View().A)
	require.Equal(t, int32(43), c.View().B)
	require.Len(t, c.Buffer(), 8)
	require.True(t, unsafe.SliceData(c.Buffer()) == orig, "pointer identity: in-place must not reallocate when already sized")
}

func TestDeserializeDynamicArrayOfScalars(t *testing.T) {
	type Xs struct {
		Vals []int32
	}
	buf := make([]byte, 24)
	buf = append(buf, wordBytesFor(3)...)
	buf = append(buf, 1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0)

	c, err := Deserialize[Xs](&buf)
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3}, c.View().Vals)

	base := unsafe.Pointer(unsafe.SliceData(c.Buffer()))
	elemPtr := unsafe.Pointer(unsafe.SliceData(c.View().Vals))
	require.Equal(t, uintptr(24+wire.WordSize), uintptr(elemPtr)-uintptr(base))
}

func TestDeserializeTrailingEmptyDynamicArray(t *testing.T) {
	type Xs struct {
		Vals []int32
	}
	buf := make([]byte, 24)
	buf = append(buf, wordBytesFor(0)...) // length = 0, no payload follows

	c, err := Deserialize[Xs](&buf)
	require.NoError(t, err)
	require.Len(t, c.View().Vals, 0)
	require.NotNil(t, c.View().Vals)
}

func TestDeserializeTrailingEmptyString(t *testing.T) {
	type Named struct {
		Name string
	}
	buf := make([]byte, 16)
	buf = append(buf, wordBytesFor(0)...) // length = 0, no bytes follow

	c, err := Deserialize[Named](&buf)
	require.NoError(t, err)
	require.Equal(t, "", c.View().Name)
}

func TestDeserializeBranchedArrayWithEmptyOuterLength(t *testing.T) {
	type Matrix struct {
		M [][]int32
	}
	buf := make([]byte, 24)
	buf = append(buf, wordBytesFor(0)...) // outer length = 0, no rows follow

	c, err := Deserialize[Matrix](&buf)
	require.NoError(t, err)
	require.Len(t, c.View().M, 0)
}

func TestDeserializeNestedRecordWithArray(t *testing.T) {
	type Inner struct {
		Bs []uint8
	}
	type Outer struct {
		I Inner
	}
	buf := make([]byte, 24)
	buf = append(buf, wordBytesFor(2)...)
	buf = append(buf, 0xAA, 0xBB)

	c, err := Deserialize[Outer](&buf)
	require.NoError(t, err)
	require.Equal(t, []uint8{0xAA, 0xBB}, c.View().I.Bs)
}

func TestDeserializeBranchedArray(t *testing.T) {
	type Matrix struct {
		M [][]int32
	}
	sizeofT := 24
	var tail []byte
	tail = append(tail, wordBytesFor(2)...)
	tail = append(tail, wordBytesFor(2)...)
	tail = append(tail, 1, 0, 0, 0, 2, 0, 0, 0)
	tail = append(tail, wordBytesFor(1)...)
	tail = append(tail, 3, 0, 0, 0)

	input := make([]byte, sizeofT)
	input = append(input, tail...)
	dataLen := len(input)

	buf := append([]byte(nil), input...)
	c, err := Deserialize[Matrix](&buf)
	require.NoError(t, err)

	require.Len(t, c.View().M, 2)
	require.Equal(t, []int32{1, 2}, c.View().M[0])
	require.Equal(t, []int32{3}, c.View().M[1])

	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.Buffer())))
	outerPtr := uintptr(unsafe.Pointer(unsafe.SliceData(c.View().M)))
	require.GreaterOrEqual(t, outerPtr-base, uintptr(dataLen))

	row0Ptr := uintptr(unsafe.Pointer(unsafe.SliceData(c.View().M[0])))
	require.Less(t, row0Ptr-base, uintptr(dataLen))

	required, err := RequiredSize[Matrix](input)
	require.NoError(t, err)
	require.Equal(t, required, len(c.Buffer()))
}

func TestDeserializeStringField(t *testing.T) {
	type Named struct {
		Name string
	}
	buf := make([]byte, 16) // Go string header: 2 machine words
	buf = append(buf, wordBytesFor(5)...)
	buf = append(buf, []byte("hello")...)

	c, err := Deserialize[Named](&buf)
	require.NoError(t, err)
	require.Equal(t, "hello", c.View().Name)
}

func TestDeserializeRejectsOverLength(t *testing.T) {
	type Xs struct {
		Vals []int32
	}
	buf := make([]byte, 24)
	buf = append(buf, wordBytesFor(^uint64(0))...)

	_, err := Deserialize[Xs](&buf, WithMaxLength(1000))
	require.Error(t, err)
	var derr *DeserializationError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, ErrKindSizeLimit, derr.Kind)
	require.Contains(t, err.Error(), "exceeds limit")
}

func TestDeserializeRejectsTruncatedInput(t *testing.T) {
	type Xs struct {
		Vals []int32
	}
	buf := make([]byte, 24)
	buf = append(buf, wordBytesFor(3)...)
	buf = append(buf, 1, 0, 0, 0) // truncated: missing two elements

	_, err := Deserialize[Xs](&buf)
	require.Error(t, err)
	require.Contains(t, err.Error(), "input data length")
}

func TestDeserializeCopyDistinctBuffers(t *testing.T) {
	type Pair struct {
		A int32
		B int32
	}
	src := []byte{0x2A, 0, 0, 0, 0x2B, 0, 0, 0}

	var dst Contiguous[Pair]
	c, err := DeserializeCopy[Pair](src, &dst)
	require.NoError(t, err)
	require.True(t, unsafe.SliceData(c.Buffer()) != unsafe.SliceData(src))
	require.Equal(t, int32(42), c.View().A)
	require.Equal(t, src, c.Buffer()) // identical bytes, distinct storage
}

func TestDeserializeCopyReusesDestinationCapacity(t *testing.T) {
	type Pair struct {
		A int32
		B int32
	}
	src := []byte{0x2A, 0, 0, 0, 0x2B, 0, 0, 0}

	dst := Contiguous[Pair]{buf: make([]byte, 0, 64)}
	reused := unsafe.SliceData(dst.buf)

	c, err := DeserializeCopy[Pair](src, &dst)
	require.NoError(t, err)
	require.Equal(t, 8, len(c.Buffer()))
	require.True(t, unsafe.SliceData(c.Buffer()) == reused, "sufficient capacity must be reused, not reallocated")
}

func TestDeserializeIdempotentInPlace(t *testing.T) {
	type Pair struct {
		A int32
		B int32
	}
	buf := []byte{0x2A, 0, 0, 0, 0x2B, 0, 0, 0}
	c1, err := Deserialize[Pair](&buf)
	require.NoError(t, err)

	c2, err := Deserialize[Pair](&buf)
	require.NoError(t, err)
	require.Equal(t, *c1.View(), *c2.View())
}

func TestDeserializeRejectsNonStruct(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	_, err := Deserialize[int32](&buf)
	require.Error(t, err)
}

func wordBytesFor(w uint64) []byte {
	b := make([]byte, wire.WordSize)
	wire.WriteWord(b, w)
	return b
}
