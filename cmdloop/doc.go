// Package cmdloop implements the top-level command arbitration loop: after a
// greeting, block-read one command byte from the host link and dispatch 'U'
// to a new update session or 'B' to the boot dispatcher; any other byte is
// ignored. A second goroutine watches the reset link for the out-of-band
// reset byte, the closest Go analog of a single hardware interrupt source —
// it only ever calls Resetter.Reset, so it never mutates session-owned state
// from outside the main loop.
package cmdloop
