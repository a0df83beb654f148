package main

import (
	"io"
	"os"

	"github.com/vuds/bootloader/link"
)

// stdioLink multiplexes the host link onto stdin/stdout so --sim can be
// driven by any process speaking the wire protocol over stdio, without any
// real serial hardware.
type stdioLink struct{}

func (stdioLink) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioLink) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// simLinks wires the host link to stdin/stdout, the debug link to stderr,
// and the reset link to a pipe nothing ever writes to: --sim has no
// hardware interrupt source, so the reset-link watcher simply blocks until
// the process exits.
func simLinks() (link.HostLink, link.DebugLink, link.ResetLink, error) {
	r, _ := io.Pipe()
	return stdioLink{}, os.Stderr, r, nil
}
