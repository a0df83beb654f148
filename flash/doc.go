// Package flash implements page-granular programming of internal flash
// memory on top of a word-addressed erase/program/read driver contract.
//
// # Overview
//
// Internal flash on this class of device erases in whole pages and programs
// in 4-byte words. Programmer.Program hides both granularities behind a
// single call: erase the page, program every complete word from the
// caller's buffer, and for a buffer whose length is not a multiple of the
// word size, assemble one final tail word by packing the remaining bytes
// low and padding the rest with 0xFF.
//
// # Basic usage
//
//	prog := flash.NewProgrammer(device)
//	if err := prog.Program(pageAddr, buf); err != nil {
//	    log.Fatal(err)
//	}
//	if err := prog.Verify(pageAddr, buf); err != nil {
//	    log.Fatal(err) // read-back did not match what was just written
//	}
//
// # Hardware independence
//
// This package does not talk to real flash controllers. Callers supply a
// Device implementation; simflash provides an in-memory one for tests and
// demos, and a real embedded target would back Device with MMIO register
// writes.
package flash
