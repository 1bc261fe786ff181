// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package spidev

// OpenOption defines the interface required to provide an option to Open.
type OpenOption interface {
	applyOpenOption(*openConfig)
}

type openConfig struct {
	access AccessMode

	speedHz  uint32
	speedSet bool

	bitsPerWord uint8
	bitsSet     bool

	mode    Mode
	modeSet bool

	lsbFirst bool
	lsbSet   bool

	csChip   string
	csOffset int
	csSet    bool
}

// AccessMode is an option restricting the access mode the device is opened
// with.
//
// The default is [ReadWrite].
type AccessMode int

const (
	// ReadWrite opens the device for transfers in both directions.
	ReadWrite AccessMode = iota

	// ReadOnly opens the device for receive-only transfers.
	ReadOnly

	// WriteOnly opens the device for transmit-only transfers.
	WriteOnly
)

func (o AccessMode) applyOpenOption(c *openConfig) {
	c.access = o
}

// SpeedOption provides the default clock speed for the Bus.
type SpeedOption uint32

// WithSpeed returns an option that sets the default clock speed for the
// Bus, in Hz.
//
// The speed applies to exchanges that do not override it, and must be
// non-zero.
func WithSpeed(hz uint32) SpeedOption {
	return SpeedOption(hz)
}

func (o SpeedOption) applyOpenOption(c *openConfig) {
	c.speedHz = uint32(o)
	c.speedSet = true
}

// BitsPerWordOption provides the default word width for the Bus.
type BitsPerWordOption uint8

// WithBitsPerWord returns an option that sets the default word width for
// the Bus, in bits.
//
// Supported widths are device dependent and checked by the driver.
func WithBitsPerWord(bits uint8) BitsPerWordOption {
	return BitsPerWordOption(bits)
}

func (o BitsPerWordOption) applyOpenOption(c *openConfig) {
	c.bitsPerWord = uint8(o)
	c.bitsSet = true
}

// WithMode returns an option that sets the mode flags for the Bus.
//
// The [Mode] may also be passed to Open directly.
func WithMode(m Mode) Mode {
	return m
}

func (m Mode) applyOpenOption(c *openConfig) {
	c.mode = m
	c.modeSet = true
}

// LSBFirstOption selects the per-word bit order on the wire.
type LSBFirstOption bool

// WithLSBFirst is an option that selects least significant bit first
// per-word bit order for the Bus.
const WithLSBFirst = LSBFirstOption(true)

func (o LSBFirstOption) applyOpenOption(c *openConfig) {
	c.lsbFirst = bool(o)
	c.lsbSet = true
}

// GPIOChipSelectOption provides the GPIO line to drive as the chip select.
type GPIOChipSelectOption struct {
	chip   string
	offset int
}

// WithGPIOChipSelect returns an option that drives the given GPIO line as
// the chip select instead of the controller's native chip select.
//
// The chip identifies the gpiochip, e.g. "gpiochip0", and the offset the
// line on that chip.  The line is requested as an active-low output, held
// inactive while the Bus is idle and asserted for the duration of each
// submitted batch.  [ModeNoCS] is added to the Bus mode so the controller
// leaves its own chip select unrouted.
//
// Per-transfer [Transfer.CSChange] cannot be honoured mid-batch with a GPIO
// chip select, so submitting a batch requesting it fails with
// [ErrUnsupportedCSChange].
func WithGPIOChipSelect(chip string, offset int) GPIOChipSelectOption {
	return GPIOChipSelectOption{chip: chip, offset: offset}
}

func (o GPIOChipSelectOption) applyOpenOption(c *openConfig) {
	c.csChip = o.chip
	c.csOffset = o.offset
	c.csSet = true
}
