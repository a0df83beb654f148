package protocol

import (
	"fmt"
	"io"
)

// ReadFrame performs the full frame receive sequence over r: read the type
// byte, read the 1056-byte ciphertext block and 16-byte IV, decrypt under
// AES-128-CBC with key, and verify the trailing digest against a freshly
// computed SHA-256 of the decrypted payload.
//
// If the type byte does not match expected, ReadFrame returns immediately
// without draining the rest of the frame from r. That is intentional, not
// an oversight: it matches the original firmware's behavior, and the caller
// is expected to resynchronize on the next read rather than have this
// function guess how much of a mismatched frame to discard.
func ReadFrame(r io.Reader, key []byte, expected FrameType) (Frame, error) {
	var typeBuf [1]byte
	if _, err := io.ReadFull(r, typeBuf[:]); err != nil {
		return Frame{}, &FrameError{Kind: ErrKindRead, Err: err}
	}
	if FrameType(typeBuf[0]) != expected {
		return Frame{}, &FrameError{Kind: ErrKindType}
	}

	var ciphertext [CipherBlockSize]byte
	if _, err := io.ReadFull(r, ciphertext[:]); err != nil {
		return Frame{}, &FrameError{Kind: ErrKindRead, Err: err}
	}

	var iv [IVSize]byte
	if _, err := io.ReadFull(r, iv[:]); err != nil {
		return Frame{}, &FrameError{Kind: ErrKindRead, Err: err}
	}

	plainBlock, err := decryptCipherBlock(key, iv, ciphertext)
	if err != nil {
		return Frame{}, fmt.Errorf("decrypt frame: %w", err)
	}

	var payload [PlaintextSize]byte
	copy(payload[:], plainBlock[:PlaintextSize])

	var trailingDigest [DigestSize]byte
	copy(trailingDigest[:], plainBlock[PlaintextSize:])

	if !digestsEqual(digest256(payload), trailingDigest) {
		return Frame{}, &FrameError{Kind: ErrKindIntegrity}
	}

	return Frame{Type: expected, Plaintext: payload}, nil
}
