// Package simflash provides an in-memory flash.Device for tests, demos, and
// the --sim mode of cmd/bootloader. It is not a hardware driver: a real
// target backs flash.Device with MMIO register writes to its flash
// controller, something this package makes no attempt to model.
//
// Bootstrap seeds a Device to a known state the way factory programming
// would: either untouched (erased metadata, the device's true factory
// state) or pre-loaded with a known firmware image and metadata record.
package simflash
