package link

import (
	"fmt"

	"github.com/cesanta/go-serial/serial"
)

// SerialOptions configures a UART-backed link. It mirrors the subset of
// serial.OpenOptions the bootloader actually needs; defaults match the
// 8N1 framing mongoose-os-mos uses for its device consoles.
type SerialOptions struct {
	PortName string
	BaudRate uint
}

func (o SerialOptions) openOptions() serial.OpenOptions {
	baud := o.BaudRate
	if baud == 0 {
		baud = 115200
	}
	return serial.OpenOptions{
		PortName:        o.PortName,
		BaudRate:        baud,
		DataBits:        8,
		ParityMode:      serial.PARITY_NONE,
		StopBits:        1,
		MinimumReadSize: 1,
	}
}

// OpenSerialHostLink opens opts.PortName as the host link: the half-duplex
// channel that carries Wire Frames in and 2-byte replies out.
func OpenSerialHostLink(opts SerialOptions) (HostLink, error) {
	s, err := serial.Open(opts.openOptions())
	if err != nil {
		return nil, fmt.Errorf("link: open host serial port %q: %w", opts.PortName, err)
	}
	return s, nil
}

// OpenSerialDebugLink opens opts.PortName as the debug link.
func OpenSerialDebugLink(opts SerialOptions) (DebugLink, error) {
	s, err := serial.Open(opts.openOptions())
	if err != nil {
		return nil, fmt.Errorf("link: open debug serial port %q: %w", opts.PortName, err)
	}
	return s, nil
}

// OpenSerialResetLink opens opts.PortName as the reset link.
func OpenSerialResetLink(opts SerialOptions) (ResetLink, error) {
	s, err := serial.Open(opts.openOptions())
	if err != nil {
		return nil, fmt.Errorf("link: open reset serial port %q: %w", opts.PortName, err)
	}
	return s, nil
}
