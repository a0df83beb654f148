package simflash

import (
	"testing"

	"github.com/vuds/bootloader/flash"
	"github.com/vuds/bootloader/metadata"
)

func TestDeviceFactoryState(t *testing.T) {
	d := New(2 * flash.PageSize)
	word, err := d.ReadWord(0)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	want := [flash.WriteSize]byte{0xFF, 0xFF, 0xFF, 0xFF}
	if word != want {
		t.Errorf("word = % 02X, want % 02X (erased)", word, want)
	}
}

func TestDeviceProgramAndRead(t *testing.T) {
	d := New(2 * flash.PageSize)
	prog := flash.NewProgrammer(d)
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	if err := prog.Program(0, buf); err != nil {
		t.Fatalf("Program: %v", err)
	}
	if err := prog.Verify(0, buf); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestDeviceRejectsOutOfRangeAccess(t *testing.T) {
	d := New(flash.PageSize)
	if _, err := d.ReadWord(flash.PageSize); err == nil {
		t.Fatal("ReadWord past device size: want error, got nil")
	}
}

func TestBootstrapSeedsMetadataAndFirmware(t *testing.T) {
	d := New(4 * flash.PageSize)
	firmware := make([]byte, 16)
	for i := range firmware {
		firmware[i] = byte(i)
	}
	releaseMessage := []byte("v1.0.0\x00")

	const metadataBase = 3 * flash.PageSize
	const firmwareBase = 0
	if err := d.Bootstrap(metadataBase, firmwareBase, 9, firmware, releaseMessage); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	store := metadata.NewStore(d, metadataBase)
	version, err := store.GetInstalledVersion()
	if err != nil {
		t.Fatalf("GetInstalledVersion: %v", err)
	}
	if version != 9 {
		t.Errorf("version = %d, want 9", version)
	}
	size, err := store.GetInstalledSize()
	if err != nil {
		t.Fatalf("GetInstalledSize: %v", err)
	}
	if size != uint16(len(firmware)) {
		t.Errorf("size = %d, want %d", size, len(firmware))
	}

	for i, want := range firmware {
		word, err := d.ReadWord(uint32(i &^ 3))
		if err != nil {
			t.Fatalf("ReadWord: %v", err)
		}
		if word[i%4] != want {
			t.Errorf("firmware byte %d = 0x%02X, want 0x%02X", i, word[i%4], want)
		}
	}
}

func TestBootstrapVersionZeroLeavesFactoryState(t *testing.T) {
	d := New(2 * flash.PageSize)
	if err := d.Bootstrap(flash.PageSize, 0, 0, []byte{1, 2, 3}, []byte{0}); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	store := metadata.NewStore(d, flash.PageSize)
	v, err := store.GetInstalledVersion()
	if err != nil {
		t.Fatalf("GetInstalledVersion: %v", err)
	}
	if v != 0xFFFF {
		t.Errorf("version = 0x%04X, want 0xFFFF (factory state)", v)
	}
}
