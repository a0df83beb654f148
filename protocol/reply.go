package protocol

import "io"

// WriteReply writes the 2-byte reply (ReplyMarker, status) to w.
func WriteReply(w io.Writer, status Status) error {
	reply := Reply{Status: status}
	encoded := reply.Encode()
	_, err := w.Write(encoded[:])
	return err
}
