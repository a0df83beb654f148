package metadata

import (
	"encoding/binary"

	"github.com/vuds/bootloader/flash"
)

// Store is the metadata record at a fixed flash address: one 32-bit word,
// low 16 bits version, high 16 bits firmware size.
type Store struct {
	device flash.Device
	base   uint32
	prog   *flash.Programmer
}

// NewStore creates a Store for the metadata word at base, backed by device.
func NewStore(device flash.Device, base uint32, opts ...flash.Option) *Store {
	return &Store{
		device: device,
		base:   base,
		prog:   flash.NewProgrammer(device, opts...),
	}
}

func (s *Store) readWord() (uint32, error) {
	word, err := s.device.ReadWord(s.base)
	if err != nil {
		return 0, &ReadError{Addr: s.base, Err: err}
	}
	return binary.LittleEndian.Uint32(word[:]), nil
}

// GetInstalledVersion returns the low 16 bits of the metadata word. An
// erased (factory) word reads back as version 0xFFFF.
func (s *Store) GetInstalledVersion() (uint16, error) {
	word, err := s.readWord()
	if err != nil {
		return 0, err
	}
	return uint16(word), nil
}

// GetInstalledSize returns the high 16 bits of the metadata word.
func (s *Store) GetInstalledSize() (uint16, error) {
	word, err := s.readWord()
	if err != nil {
		return 0, err
	}
	return uint16(word >> 16), nil
}

// Write programs the metadata word, erasing the metadata page first. It
// must be called before any firmware bytes of a new image are programmed
// (spec I1); a reset partway through the image afterwards leaves the new
// record in place over an incompletely written image.
func (s *Store) Write(version, size uint16) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(size)<<16|uint32(version))
	return s.prog.Program(s.base, buf[:])
}
