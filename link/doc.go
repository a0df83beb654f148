// Package link defines the three serial-like transports the bootloader core
// treats as external collaborators: the host link (the half-duplex,
// request/reply channel frames and replies travel over), the debug link
// (one-way, human-readable progress text), and the reset link (a single
// interrupt source that triggers a hardware reset on one magic byte).
//
// The core only depends on the narrow io.Reader/io.Writer contracts below;
// this package additionally provides a real implementation backed by
// github.com/cesanta/go-serial, the same library mongoose-os-mos uses to
// talk to its devices over UART.
package link
