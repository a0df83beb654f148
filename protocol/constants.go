package protocol

// FrameType identifies which phase of the update a frame belongs to.
type FrameType byte

const (
	// StartFrame carries the version/size header that opens a session.
	StartFrame FrameType = 0x01
	// DataFrame carries one page of firmware or release-message bytes.
	DataFrame FrameType = 0x02
	// EndFrame is the authenticated terminator of a session.
	EndFrame FrameType = 0x03
)

func (t FrameType) String() string {
	switch t {
	case StartFrame:
		return "START"
	case DataFrame:
		return "DATA"
	case EndFrame:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// Status is the single status byte carried in a Reply.
type Status byte

const (
	// StatusOK acknowledges a frame that was received and committed.
	StatusOK Status = 0x00
	// StatusError rejects a frame; the host is expected to retry it.
	StatusError Status = 0x01
	// StatusEnd tells the host the session was aborted after exceeding its
	// error budget and the device is resetting; a successful session ends
	// with StatusOK for the END frame.
	StatusEnd Status = 0x02
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	case StatusEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// ReplyMarker is the fixed first byte of every 2-byte reply. It is a
// separate namespace from FrameType — the wire format never unifies the
// two, and the reply marker's value happens to collide with none of the
// request type values only by coincidence.
const ReplyMarker = 0x04

// Frame geometry, fixed by the wire format.
const (
	// PlaintextSize is the size of one frame's decrypted payload.
	PlaintextSize = 1024

	// DigestSize is the size of the SHA-256 digest appended to the payload
	// before encryption.
	DigestSize = 32

	// CipherBlockSize is the size of the ciphertext block that carries the
	// payload and its digest together: PlaintextSize + DigestSize.
	CipherBlockSize = PlaintextSize + DigestSize

	// IVSize is the size of the CBC initialization vector, one AES block.
	IVSize = 16

	// FrameSize is the total wire size of a frame: type + ciphertext + iv.
	FrameSize = 1 + CipherBlockSize + IVSize

	// ReplySize is the total wire size of a reply.
	ReplySize = 2

	// KeySize is the required length of the pre-shared AES-128 key.
	KeySize = 16
)

// StartPayloadSize is the number of meaningful bytes at the front of a
// START frame's plaintext; the rest is reserved and ignored.
const StartPayloadSize = 6
