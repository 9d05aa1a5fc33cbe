// Package framing wraps a Contiguous[T]'s backing buffer in a
// self-describing frame for transport or persistence: magic, a flags
// byte, the payload length, the payload itself (optionally
// zstd-compressed), and a trailing CRC32 checksum.
//
// This sits entirely outside the core deserializer: the core wire
// format never gains a version byte or a checksum of its own. Framing
// is grounded on the sibling compactwire package's DataFrame layout
// (preamble + length + flags + payload + trailing CRC32) and on the
// zc package's use of zstd for payload compression.
package framing

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// magic identifies a contiguous frame. It has no version semantics:
// the core wire format this frame carries is fixed-layout by design
// (spec Non-goals), so there is nothing to version here either.
var magic = [4]byte{'C', 'T', 'G', '1'}

const (
	// FlagCompressed marks the payload as zstd-compressed.
	FlagCompressed byte = 1 << 0

	headerSize = len(magic) + 1 + 4 // magic + flags + uint32 length
	trailerSize = 4                 // CRC32
)

// ErrCorrupt is returned when a frame fails its magic, length, or CRC
// check.
var ErrCorrupt = errors.New("framing: corrupt frame")

// Encode wraps buf in a frame. When compress is true, buf is run
// through zstd before framing, grounded on zc.compressData's use of
// zstd.WithEncoderLevel(zstd.SpeedBetterCompression).
func Encode(buf []byte, compress bool) ([]byte, error) {
	flags := byte(0)
	payload := buf
	if compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, errors.Wrap(err, "framing: open zstd encoder")
		}
		payload = enc.EncodeAll(buf, nil)
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "framing: close zstd encoder")
		}
		flags |= FlagCompressed
	}

	out := make([]byte, headerSize+len(payload)+trailerSize)
	copy(out[0:4], magic[:])
	out[4] = flags
	binary.LittleEndian.PutUint32(out[5:9], uint32(len(payload)))
	copy(out[headerSize:], payload)

	crc := crc32.ChecksumIEEE(out[4 : headerSize+len(payload)])
	binary.LittleEndian.PutUint32(out[headerSize+len(payload):], crc)
	return out, nil
}

// Decode unwraps a frame produced by Encode, verifying its magic,
// declared length, and CRC32 before returning the (decompressed)
// payload.
func Decode(frame []byte) ([]byte, error) {
	if len(frame) < headerSize+trailerSize {
		return nil, errors.Wrap(ErrCorrupt, "framing: frame too short")
	}
	if [4]byte(frame[0:4]) != magic {
		return nil, errors.Wrap(ErrCorrupt, "framing: bad magic")
	}
	flags := frame[4]
	length := int(binary.LittleEndian.Uint32(frame[5:9]))
	if len(frame) != headerSize+length+trailerSize {
		return nil, errors.Wrap(ErrCorrupt, "framing: length mismatch")
	}

	payload := frame[headerSize : headerSize+length]
	wantCRC := binary.LittleEndian.Uint32(frame[headerSize+length:])
	if crc32.ChecksumIEEE(frame[4:headerSize+length]) != wantCRC {
		return nil, errors.Wrap(ErrCorrupt, "framing: crc mismatch")
	}

	if flags&FlagCompressed == 0 {
		return payload, nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "framing: open zstd decoder")
	}
	defer dec.Close()
	out, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, errors.Wrap(err, "framing: zstd decode")
	}
	return out, nil
}
