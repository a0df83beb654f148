// Package metadata reads and writes the persisted (version, firmware_size)
// record that the update session consults for rollback checks and the boot
// dispatcher consults to find the installed image.
//
// The record is one 32-bit little-endian flash word: the low 16 bits are
// the version, the high 16 bits are the firmware size. An erased word
// (0xFFFFFFFF) means factory state; GetInstalledVersion reports it as
// version 0xFFFF without any special-casing, since that is exactly what the
// low half of an all-ones word already reads as.
//
//	store := metadata.NewStore(device, metadataBase)
//	v, err := store.GetInstalledVersion()
//	...
//	err = store.Write(newVersion, newSize)
package metadata
