package protocol

import "encoding/binary"

// Frame is the decoded, authenticated form of one wire frame: a type tag
// and its verified plaintext payload. Callers never see raw ciphertext.
type Frame struct {
	Type      FrameType
	Plaintext [PlaintextSize]byte
}

// StartHeader is the parsed form of a START frame's payload: three
// little-endian u16 fields followed by reserved bytes the core never
// inspects.
type StartHeader struct {
	Version            uint16
	FirmwareSize       uint16
	ReleaseMessageSize uint16
}

// ParseStartHeader decodes the first StartPayloadSize bytes of a START
// frame's plaintext. It never fails: every byte pattern is a valid (if
// possibly nonsensical) header, and range validation is the caller's job
// (rollback and size checks happen in the session package).
func ParseStartHeader(plaintext [PlaintextSize]byte) StartHeader {
	return StartHeader{
		Version:            binary.LittleEndian.Uint16(plaintext[0:2]),
		FirmwareSize:       binary.LittleEndian.Uint16(plaintext[2:4]),
		ReleaseMessageSize: binary.LittleEndian.Uint16(plaintext[4:6]),
	}
}

// Reply is the 2-byte acknowledgment sent after every frame.
type Reply struct {
	Status Status
}

// Encode returns the wire bytes for a Reply.
func (r Reply) Encode() [ReplySize]byte {
	return [ReplySize]byte{ReplyMarker, byte(r.Status)}
}
