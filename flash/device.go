package flash

// Device is the driver contract a flash controller must satisfy:
// page-granular erase, word-granular program, and word-granular read-back.
// Programmer never assumes anything about the backing storage beyond this
// interface, so a real MMIO-backed implementation and simflash's in-memory
// one are interchangeable.
type Device interface {
	ErasePage(pageAddr uint32) error
	ProgramWord(addr uint32, word [WriteSize]byte) error
	ReadWord(addr uint32) ([WriteSize]byte, error)
}
