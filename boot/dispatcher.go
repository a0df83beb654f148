package boot

import (
	"fmt"
	"io"

	"github.com/sigurn/crc16"

	"github.com/vuds/bootloader/flash"
	"github.com/vuds/bootloader/metadata"
)

// maxReleaseMessage is the default bound on how many bytes Boot will scan
// looking for the release message's NUL terminator before giving up. A
// factory-state (erased) metadata word reports firmware_size as 0xFFFF, so
// without this bound a corrupt or unbootstrapped device would scan until it
// walked off the end of the address space. Override via
// WithMaxReleaseMessage.
const maxReleaseMessage = 4096

// Launcher is the platform-specific jump-to-application mechanism: on real
// hardware, loading the firmware's initial stack pointer and branching to
// its reset vector, never returning on success. Modeled as returning an
// error here purely so Dispatcher.Boot is testable.
type Launcher interface {
	Launch(entryAddr uint32) error
}

// Dispatcher implements the boot-time handoff to installed firmware.
type Dispatcher struct {
	device       flash.Device
	meta         *metadata.Store
	firmwareBase uint32
	entryAddr    uint32
	debugLink    io.Writer
	launcher     Launcher
	cfg          Config
}

// New creates a Dispatcher. entryAddr is the platform-specific firmware
// entry point (e.g. the second word of an ARM vector table read at
// firmwareBase); computing it is the caller's responsibility.
func New(device flash.Device, meta *metadata.Store, firmwareBase, entryAddr uint32, debugLink io.Writer, launcher Launcher, opts ...Option) *Dispatcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Dispatcher{
		device:       device,
		meta:         meta,
		firmwareBase: firmwareBase,
		entryAddr:    entryAddr,
		debugLink:    debugLink,
		launcher:     launcher,
		cfg:          cfg,
	}
}

// Boot reads the installed firmware size, emits the release message and a
// CRC16/CCITT-FALSE diagnostic over the firmware region on the debug link,
// then transfers control via the injected Launcher. It does not return on
// real hardware; the returned error exists only so test doubles can report a
// launch failure.
func (d *Dispatcher) Boot() error {
	size, err := d.meta.GetInstalledSize()
	if err != nil {
		return fmt.Errorf("boot: read installed size: %w", err)
	}
	d.cfg.Logger.Debug("installed firmware size", "size", size)

	message, err := readNULTerminated(d.device, d.firmwareBase+uint32(size), d.cfg.MaxReleaseMessage)
	if err != nil {
		return fmt.Errorf("boot: read release message: %w", err)
	}
	fmt.Fprintf(d.debugLink, "%s\n", message)

	sum, err := crc16Region(d.device, d.firmwareBase, int(size))
	if err != nil {
		return fmt.Errorf("boot: crc16 firmware region: %w", err)
	}
	fmt.Fprintf(d.debugLink, "firmware crc16/ccitt-false: 0x%04X\n", sum)

	if err := d.launcher.Launch(d.entryAddr); err != nil {
		d.cfg.Logger.Error("launch failed", "entry_addr", d.entryAddr, "err", err)
		return fmt.Errorf("boot: launch: %w", err)
	}
	return nil
}

// readNULTerminated reads whole words from device starting at addr until a
// NUL byte is found (exclusive) or limit bytes have been read.
func readNULTerminated(device flash.Device, addr uint32, limit int) (string, error) {
	buf := make([]byte, 0, 64)
	for len(buf) < limit {
		word, err := device.ReadWord(addr)
		if err != nil {
			return "", err
		}
		addr += flash.WriteSize
		for _, b := range word {
			if b == 0x00 {
				return string(buf), nil
			}
			buf = append(buf, b)
			if len(buf) >= limit {
				return string(buf), nil
			}
		}
	}
	return string(buf), nil
}

// crc16Region computes CRC16/CCITT-FALSE over n bytes of device starting at
// addr, reading whole words and truncating the final partial word.
func crc16Region(device flash.Device, addr uint32, n int) (uint16, error) {
	table := crc16.MakeTable(crc16.CRC16_CCITT_FALSE)
	buf := make([]byte, 0, n)
	for remaining := n; remaining > 0; {
		word, err := device.ReadWord(addr)
		if err != nil {
			return 0, err
		}
		addr += flash.WriteSize
		take := flash.WriteSize
		if remaining < take {
			take = remaining
		}
		buf = append(buf, word[:take]...)
		remaining -= take
	}
	return crc16.Checksum(buf, table), nil
}
