package contiguous

import (
	"errors"
	"fmt"
)

// ErrDeserialization is the sentinel every *DeserializationError matches
// via errors.Is, regardless of which of the two guarded predicates
// raised it.
var ErrDeserialization = errors.New("contiguous: deserialization error")

// ErrorKind distinguishes which of the two guarded predicates in spec §7
// produced a DeserializationError.
type ErrorKind int

const (
	// ErrKindInputSize marks a failure of enforceInputSize: the input
	// buffer is shorter than the bytes the walk needs to read next.
	ErrKindInputSize ErrorKind = iota
	// ErrKindSizeLimit marks a failure of enforceSizeLimit: a
	// serialized dynamic-array length exceeds the configured ceiling.
	ErrKindSizeLimit
)

// DeserializationError is the one error kind this package raises. It
// always carries the record type name it was raised against, the
// length actually observed, and the length that was required or
// permitted.
type DeserializationError struct {
	TypeName string
	Observed uint64
	Required uint64
	Kind     ErrorKind
}

func (e *DeserializationError) Error() string {
	switch e.Kind {
	case ErrKindSizeLimit:
		return fmt.Sprintf("contiguous: %s: length %d exceeds limit %d", e.TypeName, e.Observed, e.Required)
	default:
		return fmt.Sprintf("contiguous: %s: input data length %d < required %d", e.TypeName, e.Observed, e.Required)
	}
}

// Is reports whether target is ErrDeserialization, so callers can write
// errors.Is(err, contiguous.ErrDeserialization) without caring which
// predicate raised it.
func (e *DeserializationError) Is(target error) bool {
	return target == ErrDeserialization
}

// reusableErr backs WithReusableError(true): a single, process-wide
// DeserializationError value that deserialize calls overwrite in place
// instead of allocating. Per spec §5, this is explicitly NOT safe for
// concurrent use — two calls failing at the same time race on these
// fields. It exists only for callers who have already established
// single-threaded use and want the zero-alloc error path spec §5
// describes as the source's default behaviour.
var reusableErr DeserializationError

func newDeserializationError(reuse bool, typeName string, observed, required uint64, kind ErrorKind) *DeserializationError {
	if !reuse {
		return &DeserializationError{TypeName: typeName, Observed: observed, Required: required, Kind: kind}
	}
	reusableErr.TypeName = typeName
	reusableErr.Observed = observed
	reusableErr.Required = required
	reusableErr.Kind = kind
	return &reusableErr
}

// enforceInputSize is the first guarded predicate of spec §7: it raises
// when the input is shorter than what the walk is about to consume.
func enforceInputSize(reuse bool, typeName string, observed, required uint64) error {
	if observed < required {
		return newDeserializationError(reuse, typeName, observed, required, ErrKindInputSize)
	}
	return nil
}

// enforceSizeLimit is the second guarded predicate of spec §7: it
// raises when a serialized array length exceeds the configured ceiling.
func enforceSizeLimit(reuse bool, typeName string, observed, max uint64) error {
	if observed > max {
		return newDeserializationError(reuse, typeName, observed, max, ErrKindSizeLimit)
	}
	return nil
}
