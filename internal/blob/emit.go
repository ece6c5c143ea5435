package blob

import "io"

// Emit serializes b back to the wire format Parse consumes. Emit is a
// structural inverse of Parse: it reproduces the same chunk and field
// boundaries, not necessarily the same bytes, since ciphertext fields
// were produced with fresh IVs by the caller before being placed on
// the Parsed* structs.
func Emit(w io.Writer, b *Blob) error {
	cw := NewChunkWriter(w)

	if b.Version != "" {
		if err := cw.WriteChunk("LPAV", []byte(b.Version)); err != nil {
			return err
		}
	}

	// Vault-scoped accounts (ShareID == "") are emitted first: Parse keeps
	// a share context open until the next SHAR or the end of the stream,
	// so an ACCT written after any SHAR would be read back as belonging
	// to that share. Each share then follows, immediately followed by the
	// accounts that belong to it; accounts whose share is not in b.Shares
	// come last.
	emitted := make(map[int]bool)
	for i, account := range b.Accounts {
		if account.ShareID != "" {
			continue
		}
		if err := emitAccountChunks(cw, account); err != nil {
			return err
		}
		emitted[i] = true
	}
	for _, share := range b.Shares {
		if err := cw.WriteChunk("SHAR", emitShare(share)); err != nil {
			return err
		}
		for i, account := range b.Accounts {
			if account.ShareID != share.ID {
				continue
			}
			if err := emitAccountChunks(cw, account); err != nil {
				return err
			}
			emitted[i] = true
		}
	}

	for i, account := range b.Accounts {
		if emitted[i] {
			continue
		}
		if err := emitAccountChunks(cw, account); err != nil {
			return err
		}
	}

	return nil
}

func emitAccountChunks(cw *ChunkWriter, account ParsedAccount) error {
	if err := cw.WriteChunk("ACCT", emitAccount(account)); err != nil {
		return err
	}
	for _, field := range account.Fields {
		if err := cw.WriteChunk("ACFL", emitField(field)); err != nil {
			return err
		}
	}
	for _, att := range account.Attachments {
		if err := cw.WriteChunk("ATTA", emitAttachment(att)); err != nil {
			return err
		}
	}
	return nil
}

func emitShare(s ParsedShare) []byte {
	fw := &fieldWriter{}
	fw.writeString(s.ID)
	fw.writeBytes(s.Name)
	fw.writeString(s.ShareKeyHex)
	fw.writeBytes(s.ShareKeyAES)
	fw.writeBool(s.ReadOnly)
	return fw.bytes()
}

func emitAccount(a ParsedAccount) []byte {
	fw := &fieldWriter{}
	fw.writeString(a.ID)
	fw.writeBytes(a.Name)
	fw.writeBytes(a.Group)
	fw.writeBytes(a.URLHex)
	fw.writeBytes(a.Notes)
	fw.writeBool(a.Favorite)
	fw.writeBool(a.GroupShared)
	fw.writeBool(a.IsShared)
	fw.writeBytes(a.Username)
	fw.writeBytes(a.Password)
	fw.writeBool(a.PWProtect)
	fw.writeBool(a.AttachPresent)
	fw.writeBytes(a.AttachKey)
	return fw.bytes()
}

func emitField(f ParsedField) []byte {
	fw := &fieldWriter{}
	fw.writeBytes(f.Name)
	fw.writeBytes(f.Value)
	fw.writeString(f.Type)
	fw.writeBool(f.Checked)
	return fw.bytes()
}

func emitAttachment(a ParsedAttachment) []byte {
	fw := &fieldWriter{}
	fw.writeString(a.ID)
	fw.writeString(a.ParentID)
	fw.writeBytes(a.MimeType)
	fw.writeBytes(a.StorageKey)
	fw.writeString(a.Size)
	fw.writeBytes(a.Filename)
	return fw.bytes()
}
