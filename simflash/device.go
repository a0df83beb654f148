package simflash

import (
	"encoding/binary"
	"fmt"

	"github.com/vuds/bootloader/flash"
)

// Device is an in-memory flash.Device: a flat byte array addressed exactly
// like the real target's internal flash, with the same page-erase/
// word-program/word-read granularities.
type Device struct {
	mem []byte
}

// New creates a Device with size bytes of address space, all erased
// (0xFF) — factory state.
func New(size uint32) *Device {
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = 0xFF
	}
	return &Device{mem: mem}
}

func (d *Device) ErasePage(pageAddr uint32) error {
	if err := d.checkRange(pageAddr, flash.PageSize); err != nil {
		return err
	}
	for i := uint32(0); i < flash.PageSize; i++ {
		d.mem[pageAddr+i] = 0xFF
	}
	return nil
}

func (d *Device) ProgramWord(addr uint32, word [flash.WriteSize]byte) error {
	if err := d.checkRange(addr, flash.WriteSize); err != nil {
		return err
	}
	copy(d.mem[addr:addr+flash.WriteSize], word[:])
	return nil
}

func (d *Device) ReadWord(addr uint32) ([flash.WriteSize]byte, error) {
	var word [flash.WriteSize]byte
	if err := d.checkRange(addr, flash.WriteSize); err != nil {
		return word, err
	}
	copy(word[:], d.mem[addr:addr+flash.WriteSize])
	return word, nil
}

func (d *Device) checkRange(addr, n uint32) error {
	if uint64(addr)+uint64(n) > uint64(len(d.mem)) {
		return fmt.Errorf("simflash: address 0x%08X+%d exceeds device size %d", addr, n, len(d.mem))
	}
	return nil
}

// Bootstrap seeds metadataBase with (version, firmwareSize) and writes
// firmware immediately followed by releaseMessage at firmwareBase, modeling
// what a one-time factory programming step does at manufacturing time.
// version == 0 leaves the Device at factory state (an untouched, all-erased
// metadata word) instead.
func (d *Device) Bootstrap(metadataBase, firmwareBase uint32, version uint16, firmware, releaseMessage []byte) error {
	if version == 0 {
		return nil
	}

	var word [4]byte
	binary.LittleEndian.PutUint32(word[:], uint32(len(firmware))<<16|uint32(version))
	if err := d.ErasePage(metadataBase); err != nil {
		return err
	}
	if err := d.ProgramWord(metadataBase, word); err != nil {
		return err
	}

	image := append(append([]byte{}, firmware...), releaseMessage...)
	for pageAddr := firmwareBase; pageAddr < firmwareBase+uint32(len(image)); pageAddr += flash.PageSize {
		end := pageAddr + flash.PageSize
		if max := firmwareBase + uint32(len(image)); end > max {
			end = max
		}
		if err := d.ErasePage(pageAddr); err != nil {
			return err
		}
		chunk := image[pageAddr-firmwareBase : end-firmwareBase]
		for i := 0; i < len(chunk); i += flash.WriteSize {
			var w [flash.WriteSize]byte
			for j := range w {
				w[j] = 0xFF
			}
			wend := i + flash.WriteSize
			if wend > len(chunk) {
				wend = len(chunk)
			}
			copy(w[:], chunk[i:wend])
			if err := d.ProgramWord(pageAddr+uint32(i), w); err != nil {
				return err
			}
		}
	}
	return nil
}
