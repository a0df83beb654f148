package flash

import "bytes"

// Programmer implements page-granular commit on top of a word-addressed
// Device.
type Programmer struct {
	device Device
	cfg    Config
}

// NewProgrammer creates a Programmer backed by device.
func NewProgrammer(device Device, opts ...Option) *Programmer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Programmer{device: device, cfg: cfg}
}

// Program erases the page at pageAddr and writes buf into it. pageAddr must
// be a multiple of PageSize and len(buf) must not exceed PageSize. Complete
// WriteSize-byte words are programmed directly from buf; if len(buf) is not
// a multiple of WriteSize, the final word is assembled by packing the
// remaining bytes into the low positions and padding the rest with 0xFF,
// since the underlying device only accepts whole-word writes.
func (p *Programmer) Program(pageAddr uint32, buf []byte) error {
	if pageAddr%PageSize != 0 || len(buf) > PageSize {
		return &AlignmentError{PageAddr: pageAddr, Len: len(buf)}
	}

	p.cfg.Logger.Debug("erasing page", "addr", pageAddr)
	if err := p.device.ErasePage(pageAddr); err != nil {
		return &ProgramError{Addr: pageAddr, Err: err}
	}

	n := len(buf)
	fullWords := n / WriteSize
	for i := 0; i < fullWords; i++ {
		addr := pageAddr + uint32(i*WriteSize)
		var word [WriteSize]byte
		copy(word[:], buf[i*WriteSize:i*WriteSize+WriteSize])
		if err := p.device.ProgramWord(addr, word); err != nil {
			return &ProgramError{Addr: addr, Err: err}
		}
	}

	if tail := n % WriteSize; tail != 0 {
		addr := pageAddr + uint32(fullWords*WriteSize)
		var word [WriteSize]byte
		for i := range word {
			word[i] = 0xFF
		}
		copy(word[:tail], buf[fullWords*WriteSize:])
		if err := p.device.ProgramWord(addr, word); err != nil {
			return &ProgramError{Addr: addr, Err: err}
		}
	}

	p.cfg.Logger.Debug("page programmed", "addr", pageAddr, "len", n)
	return nil
}

// Verify re-reads the n := len(buf) bytes starting at addr (which need not
// be page-aligned) and compares them against buf, word by word, following
// the same tail-padding convention as Program.
func (p *Programmer) Verify(addr uint32, buf []byte) error {
	n := len(buf)
	fullWords := n / WriteSize
	for i := 0; i < fullWords; i++ {
		wordAddr := addr + uint32(i*WriteSize)
		got, err := p.device.ReadWord(wordAddr)
		if err != nil {
			return &VerifyError{Addr: wordAddr, Err: err}
		}
		var want [WriteSize]byte
		copy(want[:], buf[i*WriteSize:i*WriteSize+WriteSize])
		if got != want {
			p.cfg.Logger.Error("verify mismatch", "addr", wordAddr)
			return &VerifyError{Addr: wordAddr, Expected: want, Actual: got}
		}
	}

	if tail := n % WriteSize; tail != 0 {
		wordAddr := addr + uint32(fullWords*WriteSize)
		got, err := p.device.ReadWord(wordAddr)
		if err != nil {
			return &VerifyError{Addr: wordAddr, Err: err}
		}
		var want [WriteSize]byte
		for i := range want {
			want[i] = 0xFF
		}
		copy(want[:tail], buf[fullWords*WriteSize:])
		if !bytes.Equal(got[:], want[:]) {
			p.cfg.Logger.Error("verify mismatch", "addr", wordAddr)
			return &VerifyError{Addr: wordAddr, Expected: want, Actual: got}
		}
	}

	return nil
}
