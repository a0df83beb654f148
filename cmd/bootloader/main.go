// Command bootloader runs the vehicle update device service's command loop:
// greet on the debug link, then dispatch 'U' (update) and 'B' (boot)
// commands arriving on the host link.
//
// The flash driver is a platform-specific external collaborator: this
// binary backs it with simflash, an in-memory flash.Device, since a real
// MMIO driver is platform-specific and outside what a portable Go CLI can
// express. A production deployment swaps simflash.New for a real driver
// satisfying flash.Device; nothing else in this command changes.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vuds/bootloader/boot"
	"github.com/vuds/bootloader/cmdloop"
	"github.com/vuds/bootloader/flash"
	"github.com/vuds/bootloader/link"
	"github.com/vuds/bootloader/metadata"
	"github.com/vuds/bootloader/session"
	"github.com/vuds/bootloader/simflash"
)

var (
	hostPort  = flag.String("host-port", "/dev/ttyUSB0", "serial port the host tool talks frames on")
	debugPort = flag.String("debug-port", "/dev/ttyUSB1", "serial port status text is written to")
	resetPort = flag.String("reset-port", "/dev/ttyUSB2", "serial port the reset interrupt byte arrives on")
	baud      = flag.Uint("baud", 115200, "baud rate for all three serial links")

	keyHex = flag.String("key", "30313233343536373839414243444546", "pre-shared AES-128 key, hex-encoded")

	firmwareBase = flag.Uint64("firmware-base", 0x10000, "flash address the firmware image starts at")
	metadataBase = flag.Uint64("metadata-base", 0xFC00, "flash address of the metadata word")
	entryAddr    = flag.Uint64("entry-addr", 0x10004, "firmware entry point handed to the launcher")
	deviceSize   = flag.Uint64("device-size", 1<<20, "size in bytes of the simulated flash device")

	sim = flag.Bool("sim", false, "use in-memory links instead of real serial ports (for local dry runs)")
)

func main() {
	flag.Parse()

	key, err := hex.DecodeString(*keyHex)
	if err != nil || len(key) != 16 {
		fmt.Fprintf(os.Stderr, "bootloader: --key must be 32 hex characters (16 bytes): %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	logger := cmdloop.NewLogrusLogger(log)

	device := simflash.New(uint32(*deviceSize))

	hostLink, debugLink, resetLink, err := openLinks()
	if err != nil {
		log.WithError(err).Fatal("open links")
	}

	meta := metadata.NewStore(device, uint32(*metadataBase))
	flashP := flash.NewProgrammer(device, flash.WithLogger(logger))

	dispatcher := boot.New(device, meta, uint32(*firmwareBase), uint32(*entryAddr), debugLink, realLauncher{},
		boot.WithLogger(logger),
	)

	resetter := onChipResetter{}
	newSession := func() *session.Session {
		return session.New(hostLink, key, uint32(*firmwareBase), flashP, meta, resetter,
			session.WithLogger(logger),
		)
	}

	loop := cmdloop.New(hostLink, debugLink, resetLink, newSession, dispatcher, resetter,
		cmdloop.WithLogger(logger),
	)

	if err := loop.Run(context.Background()); err != nil {
		log.WithError(err).Fatal("command loop exited")
	}
}

// realLauncher is the platform-specific jump-to-application mechanism; this
// binary reports it as unimplemented rather than guessing at a target's
// boot sequence.
type realLauncher struct{}

func (realLauncher) Launch(entryAddr uint32) error {
	return fmt.Errorf("bootloader: launch to 0x%08X is platform-specific and not implemented by this build", entryAddr)
}

// onChipResetter is the platform-specific on-chip reset controller.
type onChipResetter struct{}

func (onChipResetter) Reset() {
	fmt.Fprintln(os.Stderr, "bootloader: reset requested; exiting (no on-chip reset controller in this build)")
	os.Exit(1)
}

func openLinks() (link.HostLink, link.DebugLink, link.ResetLink, error) {
	if *sim {
		return simLinks()
	}

	hostLink, err := link.OpenSerialHostLink(link.SerialOptions{PortName: *hostPort, BaudRate: *baud})
	if err != nil {
		return nil, nil, nil, err
	}
	debugLink, err := link.OpenSerialDebugLink(link.SerialOptions{PortName: *debugPort, BaudRate: *baud})
	if err != nil {
		return nil, nil, nil, err
	}
	resetLink, err := link.OpenSerialResetLink(link.SerialOptions{PortName: *resetPort, BaudRate: *baud})
	if err != nil {
		return nil, nil, nil, err
	}
	return hostLink, debugLink, resetLink, nil
}
