// Package boot implements the boot dispatcher: on a 'B' command, read the
// installed firmware size from the metadata store, emit the NUL-terminated
// release message that follows the firmware image on the debug link, and
// hand off to the architecture-specific launch mechanism.
//
// Launch is modeled as a Launcher contract that can return, for testability;
// a real hardware backend loads the stack pointer and branches to the
// firmware's reset vector and never returns.
package boot
