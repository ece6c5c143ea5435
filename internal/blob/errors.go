// Package blob parses and emits the vault's tag-length-value chunk
// stream: a flat sequence of 4-byte tag, 4-byte big-endian length,
// and payload, where the SHAR/ACCT/ACFL/ACOF/ATTA payloads are
// themselves streams of length-prefixed positional fields.
//
// This package never touches cryptographic keys. Encrypted fields are
// handed back to the caller as raw bytes; decryption and routing to
// the vault key or a share key is the root package's job.
package blob

import "errors"

// BlobError reports a malformed chunk stream. It is always fatal to
// the parse in progress.
type BlobError struct {
	Reason string
}

func (e *BlobError) Error() string {
	return "blob: " + e.Reason
}

func (e *BlobError) Is(target error) bool {
	_, ok := target.(*BlobError)
	return ok
}

func newBlobError(reason string) error {
	return &BlobError{Reason: reason}
}

// ErrTruncated names a truncated chunk stream. Parse reports a chunk
// or field header that claims more bytes than remain as a *BlobError
// with its own Reason and does not wrap this value.
var ErrTruncated = errors.New("truncated chunk stream")
