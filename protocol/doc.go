// Package protocol implements the wire format for the vehicle update
// service: a fixed-size, authenticated frame sent by a trusted host tool
// over a serial link, and the 2-byte reply the device sends back.
//
// # Frame layout
//
// Every frame, regardless of type, is exactly 1073 bytes:
//
//	offset  size  field
//	 0      1     type (StartFrame, DataFrame, EndFrame)
//	 1      1056  ciphertext: AES-128-CBC(key, iv) over (1024B plaintext ‖ 32B SHA-256 digest)
//	 1057   16    iv
//
// ReadFrame performs the full receive-decrypt-authenticate sequence and
// hands the caller 1024 bytes of verified plaintext. There is no framing
// byte, no length prefix and no per-frame sequence number: the fixed size
// lets both sides use one buffer and one code path for START, DATA and END
// frames alike.
//
// # Reply layout
//
// The device replies with exactly 2 bytes: a fixed marker byte (ReplyMarker)
// followed by one status byte (StatusOK, StatusError or StatusEnd).
//
// # Key handling
//
// The pre-shared AES-128 key is passed to ReadFrame by the caller and is
// never written back to the link or logged. On the real target this array
// must live in the bootloader's flash-mapped rodata, not in RAM initialized
// data — something the Go linker has no equivalent of, so callers embedding
// this package on real hardware are responsible for placing the key bytes
// appropriately (e.g. a //go:linkname'd rodata blob, or simply never
// allocating it on a heap the application can overwrite).
package protocol
