package link

import "testing"

func TestSerialOptionsDefaultsBaudRate(t *testing.T) {
	opts := SerialOptions{PortName: "/dev/ttyUSB0"}
	oo := opts.openOptions()
	if oo.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want 115200", oo.BaudRate)
	}
	if oo.DataBits != 8 || oo.StopBits != 1 {
		t.Errorf("framing = %d/%d, want 8/1", oo.DataBits, oo.StopBits)
	}
}

func TestSerialOptionsCustomBaudRate(t *testing.T) {
	opts := SerialOptions{PortName: "/dev/ttyUSB0", BaudRate: 57600}
	oo := opts.openOptions()
	if oo.BaudRate != 57600 {
		t.Errorf("BaudRate = %d, want 57600", oo.BaudRate)
	}
}
