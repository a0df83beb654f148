package boot

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vuds/bootloader/flash"
	"github.com/vuds/bootloader/metadata"
)

type mockDevice struct {
	words map[uint32][flash.WriteSize]byte
}

func newMockDevice() *mockDevice {
	return &mockDevice{words: make(map[uint32][flash.WriteSize]byte)}
}

func (d *mockDevice) ErasePage(pageAddr uint32) error {
	for addr := pageAddr; addr < pageAddr+flash.PageSize; addr += flash.WriteSize {
		d.words[addr] = [flash.WriteSize]byte{0xFF, 0xFF, 0xFF, 0xFF}
	}
	return nil
}

func (d *mockDevice) ProgramWord(addr uint32, word [flash.WriteSize]byte) error {
	d.words[addr] = word
	return nil
}

func (d *mockDevice) ReadWord(addr uint32) ([flash.WriteSize]byte, error) {
	w, ok := d.words[addr]
	if !ok {
		return [flash.WriteSize]byte{0xFF, 0xFF, 0xFF, 0xFF}, nil
	}
	return w, nil
}

// writeRegion writes data into device starting at addr, word by word,
// padding the final word with 0xFF past the end of data.
func writeRegion(device *mockDevice, addr uint32, data []byte) {
	for i := 0; i < len(data); i += flash.WriteSize {
		var word [flash.WriteSize]byte
		for j := range word {
			word[j] = 0xFF
		}
		end := i + flash.WriteSize
		if end > len(data) {
			end = len(data)
		}
		copy(word[:], data[i:end])
		device.words[addr+uint32(i)] = word
	}
}

type mockLauncher struct {
	called    bool
	entryAddr uint32
	err       error
}

func (l *mockLauncher) Launch(entryAddr uint32) error {
	l.called = true
	l.entryAddr = entryAddr
	return l.err
}

func TestDispatcherBootEmitsReleaseMessageAndLaunches(t *testing.T) {
	device := newMockDevice()
	meta := metadata.NewStore(device, 0x10000)
	if err := meta.Write(3, 8); err != nil {
		t.Fatalf("seed metadata: %v", err)
	}

	firmwareBase := uint32(0)
	writeRegion(device, firmwareBase, []byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0})
	message := []byte("hello\x00")
	writeRegion(device, firmwareBase+8, message)

	var debugLink bytes.Buffer
	launcher := &mockLauncher{}
	d := New(device, meta, firmwareBase, 0x1000, &debugLink, launcher)

	if err := d.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if !launcher.called {
		t.Fatal("launcher was not called")
	}
	if launcher.entryAddr != 0x1000 {
		t.Errorf("entryAddr = 0x%X, want 0x1000", launcher.entryAddr)
	}
	if !bytes.Contains(debugLink.Bytes(), []byte("hello")) {
		t.Errorf("debug link = %q, want it to contain %q", debugLink.String(), "hello")
	}
	if !bytes.Contains(debugLink.Bytes(), []byte("crc16")) {
		t.Errorf("debug link = %q, want a crc16 diagnostic line", debugLink.String())
	}
}

func TestDispatcherBootPropagatesLaunchFailure(t *testing.T) {
	device := newMockDevice()
	meta := metadata.NewStore(device, 0x10000)
	if err := meta.Write(1, 0); err != nil {
		t.Fatalf("seed metadata: %v", err)
	}
	writeRegion(device, 0, []byte{0x00})

	var debugLink bytes.Buffer
	launcher := &mockLauncher{err: errors.New("entry vector invalid")}
	d := New(device, meta, 0, 0, &debugLink, launcher)

	if err := d.Boot(); err == nil {
		t.Fatal("Boot: want error from launcher, got nil")
	}
}

func TestReadNULTerminatedStopsAtBound(t *testing.T) {
	device := newMockDevice()
	for addr := uint32(0); addr < 64; addr += flash.WriteSize {
		device.words[addr] = [flash.WriteSize]byte{0xAA, 0xAA, 0xAA, 0xAA}
	}
	got, err := readNULTerminated(device, 0, 16)
	if err != nil {
		t.Fatalf("readNULTerminated: %v", err)
	}
	if len(got) != 16 {
		t.Errorf("len(got) = %d, want 16 (bounded scan)", len(got))
	}
}

func TestDispatcherWithMaxReleaseMessageOverridesBound(t *testing.T) {
	device := newMockDevice()
	meta := metadata.NewStore(device, 0x10000)
	if err := meta.Write(1, 0); err != nil {
		t.Fatalf("seed metadata: %v", err)
	}
	for addr := uint32(0); addr < 64; addr += flash.WriteSize {
		device.words[addr] = [flash.WriteSize]byte{0xAA, 0xAA, 0xAA, 0xAA}
	}

	var debugLink bytes.Buffer
	d := New(device, meta, 0, 0, &debugLink, &mockLauncher{}, WithMaxReleaseMessage(8))

	if err := d.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	// The release message never terminates within the device's written
	// region, so the bound (8, not the default 4096) determines how much
	// gets printed.
	if !bytes.Contains(debugLink.Bytes(), []byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}) {
		t.Errorf("debug link = %q, want 8 bytes of the unterminated scan", debugLink.String())
	}
}
