package contiguous

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"

	"github.com/rawbytedev/contiguous/internal/descriptor"
)

// Deserialize is the in-place entry point of spec §4.3: it grows *buf
// to required_size(*buf) and returns a Contiguous[T] view over it. When
// the existing capacity of *buf already covers the required size, the
// grown tail is whatever bytes were already there (growStomp) — Pass 2
// overwrites every byte it needs, so the stale tail is never observed.
func Deserialize[T any](buf *[]byte, opts ...Option) (Contiguous[T], error) {
	cfg := resolveOptions(opts)
	desc, err := topDescriptor[T]()
	if err != nil {
		return Contiguous[T]{}, err
	}
	typeName := desc.Type.String()

	var extra int
	dataLen, err := sizeOfRecord(desc, *buf, &extra, cfg.maxLength, cfg.reusableErr)
	if err != nil {
		cfg.logger.Error(typeName, err)
		return Contiguous[T]{}, errors.Wrapf(err, "contiguous: Deserialize[%s]", typeName)
	}
	total := dataLen + extra
	grew := cap(*buf) < total

	grown := growStomp(*buf, total)
	*buf = grown

	if err := sliceTop(desc, grown, dataLen); err != nil {
		cfg.logger.Error(typeName, err)
		return Contiguous[T]{}, errors.Wrapf(err, "contiguous: Deserialize[%s]", typeName)
	}

	cfg.logger.Call(typeName, dataLen, extra, grew)
	return wrap[T](grown), nil
}

// DeserializeCopy is the copy entry point of spec §4.3: input is left
// untouched; dst receives a (possibly reused) buffer sized to input's
// required size, with input's bytes copied to the front and every byte
// beyond that zero-filled, per spec §9's resolved Open Question on
// dst[end_copy..].
func DeserializeCopy[T any](input []byte, dst *Contiguous[T], opts ...Option) (Contiguous[T], error) {
	cfg := resolveOptions(opts)
	desc, err := topDescriptor[T]()
	if err != nil {
		return Contiguous[T]{}, err
	}
	typeName := desc.Type.String()

	var extra int
	dataLen, err := sizeOfRecord(desc, input, &extra, cfg.maxLength, cfg.reusableErr)
	if err != nil {
		cfg.logger.Error(typeName, err)
		return Contiguous[T]{}, errors.Wrapf(err, "contiguous: DeserializeCopy[%s]", typeName)
	}
	total := dataLen + extra
	grew := cap(dst.buf) < total

	out := growStomp(dst.buf, total)
	endCopy := copy(out, input)
	zeroTail(out, endCopy)

	if err := sliceTop(desc, out, dataLen); err != nil {
		cfg.logger.Error(typeName, err)
		return Contiguous[T]{}, errors.Wrapf(err, "contiguous: DeserializeCopy[%s]", typeName)
	}

	result := wrap[T](out)
	*dst = result
	cfg.logger.Call(typeName, dataLen, extra, grew)
	return result, nil
}

// topDescriptor resolves and validates T's descriptor: a record type
// must be a struct (spec §1's data model — a bare slice or scalar at
// the top level has no sizeof(T) prefix to anchor the walk on).
func topDescriptor[T any]() (*descriptor.Descriptor, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("contiguous: %s is not a struct type and cannot be used as a record", t)
	}
	return descriptor.Of(t), nil
}
