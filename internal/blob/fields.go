package blob

import (
	"encoding/binary"
	"fmt"
)

// fieldReader walks the positional, length-prefixed sub-fields inside
// an ACCT/SHAR/ACFL/ACOF/ATTA chunk's payload. Fields have no keys:
// the n-th field has a meaning fixed by the surrounding chunk's tag.
// Reading past the declared field count yields ("", false, nil) rather
// than an error, so unknown trailing fields are tolerated.
type fieldReader struct {
	data []byte
	pos  int
}

func newFieldReader(data []byte) *fieldReader {
	return &fieldReader{data: data}
}

// next returns the next field's bytes. ok is false once the payload is
// exhausted.
func (fr *fieldReader) next() (field []byte, ok bool, err error) {
	if fr.pos >= len(fr.data) {
		return nil, false, nil
	}

	if fr.pos+4 > len(fr.data) {
		return nil, false, newBlobError("truncated field length header")
	}

	length := binary.BigEndian.Uint32(fr.data[fr.pos : fr.pos+4])
	fr.pos += 4

	end := fr.pos + int(length)
	if end < fr.pos || end > len(fr.data) {
		return nil, false, newBlobError("field length exceeds remaining payload")
	}

	field = fr.data[fr.pos:end]
	fr.pos = end
	return field, true, nil
}

// nextString is next, decoded as a string (fields may legitimately be
// empty, in which case the zero value is returned).
func (fr *fieldReader) nextString() (string, error) {
	field, _, err := fr.next()
	if err != nil {
		return "", err
	}
	return string(field), nil
}

// nextBool interprets the next field as "0"/"1", defaulting to false
// for anything else (including an absent trailing field).
func (fr *fieldReader) nextBool() (bool, error) {
	s, err := fr.nextString()
	if err != nil {
		return false, err
	}
	return s == "1", nil
}

// fieldWriter is the inverse of fieldReader: it accumulates
// length-prefixed positional fields for one chunk payload.
type fieldWriter struct {
	buf []byte
}

func (fw *fieldWriter) writeBytes(field []byte) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(field)))
	fw.buf = append(fw.buf, header[:]...)
	fw.buf = append(fw.buf, field...)
}

func (fw *fieldWriter) writeString(s string) {
	fw.writeBytes([]byte(s))
}

func (fw *fieldWriter) writeBool(b bool) {
	if b {
		fw.writeString("1")
	} else {
		fw.writeString("0")
	}
}

func (fw *fieldWriter) bytes() []byte {
	return fw.buf
}

// mustEqual reports a length mismatch between got and want as an error.
// Nothing in this package calls it.
func mustEqual(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("blob: %s length mismatch: got %d want %d", name, got, want)
	}
	return nil
}
