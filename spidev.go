// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package spidev

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
)

// Bus provides the interface to a SPI device via its spidev character
// device.
//
// A Bus carries the default clock speed and word width applied to exchanges
// that do not override them.  The fallback order for those parameters is
// per-transfer override, then Bus default, then driver default.
//
// A Bus is not safe for concurrent use without external serialization.
type Bus struct {
	// The path to the device in /dev.
	path string

	// The transport performing ioctls on the device.
	t transport

	// The out-of-band chip select, or nil if the controller's native chip
	// select is used.
	cs chipSelect

	// Bus defaults applied when packing transfers that leave the
	// corresponding field unset.
	speedHz     uint32
	bitsPerWord uint8

	closed bool
}

// Open opens the spidev device at the given path and applies the default
// configuration provided by the options.
//
// e.g. "/dev/spidev0.0"
//
// The available options are [WithSpeed], [WithBitsPerWord], [WithMode] (or
// a [Mode] directly), [WithLSBFirst], [WithGPIOChipSelect], and an
// [AccessMode].
//
// The device is closed again if applying the configuration fails.
func Open(path string, options ...OpenOption) (*Bus, error) {
	c := openConfig{}
	for _, o := range options {
		o.applyOpenOption(&c)
	}
	if c.speedSet && c.speedHz == 0 {
		return nil, ErrInvalidSpeed
	}
	flag := os.O_RDWR
	switch c.access {
	case ReadOnly:
		flag = os.O_RDONLY
	case WriteOnly:
		flag = os.O_WRONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	b := &Bus{path: path, t: &devTransport{f: f}}
	if err := b.setup(&c); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// setup applies the open configuration to the driver.
func (b *Bus) setup(c *openConfig) error {
	mode := c.mode
	if c.csSet {
		// keep the controller's own chip select unrouted
		mode |= ModeNoCS
	}
	if c.modeSet || c.csSet {
		if err := b.SetMode(mode); err != nil {
			return err
		}
	}
	if c.lsbSet {
		if err := b.SetLSBFirst(c.lsbFirst); err != nil {
			return err
		}
	}
	if c.bitsSet {
		if err := b.SetBitsPerWord(c.bitsPerWord); err != nil {
			return err
		}
	}
	if c.speedSet {
		if err := b.SetSpeedHz(c.speedHz); err != nil {
			return err
		}
	}
	if c.csSet {
		cs, err := newGPIOCS(c.csChip, c.csOffset)
		if err != nil {
			return errors.Wrap(err, "requesting chip select line")
		}
		b.cs = cs
	}
	return nil
}

// Close releases the device and any chip select line held by the Bus.
//
// It is safe to call Close on an already closed Bus, in which case it does
// nothing.  All other operations on a closed Bus fail with [ErrClosed].
func (b *Bus) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	var err error
	if b.cs != nil {
		err = b.cs.close()
	}
	if cerr := b.t.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// SubmitTransferList submits the transfers in the list to the driver as one
// atomic batch in a single syscall.
//
// On success every receive buffer in the list has been overwritten, in
// place, with the bytes received for its exchange.  Driver failures are
// returned as a [*TransferError] and are not retried.
//
// The buffers referenced by the list must not be modified, resized or freed
// until the submit returns.
func (b *Bus) SubmitTransferList(l *TransferList) error {
	if b.closed {
		return ErrClosed
	}
	raw, err := l.pack(b.speedHz, b.bitsPerWord)
	if err != nil {
		return err
	}
	if b.cs != nil {
		if l.csChanges() {
			return ErrUnsupportedCSChange
		}
		if err := b.cs.assert(); err != nil {
			return errors.Wrap(err, "asserting chip select")
		}
	}
	err = b.t.message(raw)
	// the raw records hold addresses into the list's buffers
	runtime.KeepAlive(l)
	if b.cs != nil {
		if derr := b.cs.deassert(); derr != nil && err == nil {
			err = errors.Wrap(derr, "deasserting chip select")
		}
	}
	return err
}

// Transfer performs a single exchange and returns the received bytes.
//
// If the transfer has no receive buffer then one of the same length as the
// transmit buffer is allocated, and its bytes are returned.  If the caller
// provided the receive buffer, directly or aliasing the transmit buffer,
// the returned bytes are its own storage.
func (b *Bus) Transfer(t Transfer) ([]byte, error) {
	if b.closed {
		return nil, ErrClosed
	}
	if t.Rx == nil && bufLen(t.Tx) != 0 {
		t.Rx = NewBuffer(t.Tx.Len())
	}
	var l TransferList
	if err := l.Append(t); err != nil {
		return nil, err
	}
	if err := b.SubmitTransferList(&l); err != nil {
		return nil, err
	}
	return t.Rx.Bytes(), nil
}

// Read performs a receive-only exchange of the given length and returns the
// received bytes.
//
// No transmit buffer is passed to the driver, which shifts out zeros for
// the duration of the exchange.
func (b *Bus) Read(length int) ([]byte, error) {
	if b.closed {
		return nil, ErrClosed
	}
	rx := NewBuffer(length)
	l, err := NewTransferList(Transfer{Rx: rx})
	if err != nil {
		return nil, err
	}
	if err := b.SubmitTransferList(l); err != nil {
		return nil, err
	}
	return rx.Bytes(), nil
}

// Write performs a transmit-only exchange of the given bytes.
//
// No receive buffer is passed to the driver, so the received bytes are
// dropped without being stored.
func (b *Bus) Write(p []byte) error {
	if b.closed {
		return ErrClosed
	}
	l, err := NewTransferList(Transfer{Tx: WrapReadOnly(p)})
	if err != nil {
		return err
	}
	return b.SubmitTransferList(l)
}

// SpeedHz returns the default clock speed currently set in the driver.
func (b *Bus) SpeedHz() (uint32, error) {
	if b.closed {
		return 0, ErrClosed
	}
	v, err := b.t.readU32(spiIocRdMaxSpeedHz)
	return v, errors.Wrap(err, "reading speed")
}

// SetSpeedHz sets the default clock speed for the Bus, in Hz.
//
// The new default applies to subsequent submits, not to batches already
// packed or in flight.
func (b *Bus) SetSpeedHz(hz uint32) error {
	if b.closed {
		return ErrClosed
	}
	if hz == 0 {
		return ErrInvalidSpeed
	}
	if err := b.t.writeU32(spiIocWrMaxSpeedHz, hz); err != nil {
		return errors.Wrap(err, "setting speed")
	}
	b.speedHz = hz
	return nil
}

// BitsPerWord returns the default word width currently set in the driver.
func (b *Bus) BitsPerWord() (uint8, error) {
	if b.closed {
		return 0, ErrClosed
	}
	v, err := b.t.readU8(spiIocRdBitsPerWord)
	return v, errors.Wrap(err, "reading bits per word")
}

// SetBitsPerWord sets the default word width for the Bus, in bits.
//
// The new default applies to subsequent submits, not to batches already
// packed or in flight.
func (b *Bus) SetBitsPerWord(bits uint8) error {
	if b.closed {
		return ErrClosed
	}
	if err := b.t.writeU8(spiIocWrBitsPerWord, bits); err != nil {
		return errors.Wrap(err, "setting bits per word")
	}
	b.bitsPerWord = bits
	return nil
}

// Mode returns the mode flags currently set in the driver.
func (b *Bus) Mode() (Mode, error) {
	if b.closed {
		return 0, ErrClosed
	}
	v, err := b.t.readU32(spiIocRdMode32)
	return Mode(v), errors.Wrap(err, "reading mode")
}

// SetMode sets the mode flags for the Bus.
//
// On a Bus with a GPIO chip select, [ModeNoCS] remains set regardless of
// the flags given.
func (b *Bus) SetMode(m Mode) error {
	if b.closed {
		return ErrClosed
	}
	if b.cs != nil {
		m |= ModeNoCS
	}
	if err := b.t.writeU32(spiIocWrMode32, uint32(m)); err != nil {
		return errors.Wrap(err, "setting mode")
	}
	return nil
}

// LSBFirst returns true if the driver is set to clock words least
// significant bit first.
func (b *Bus) LSBFirst() (bool, error) {
	if b.closed {
		return false, ErrClosed
	}
	v, err := b.t.readU8(spiIocRdLSBFirst)
	return v != 0, errors.Wrap(err, "reading bit order")
}

// SetLSBFirst sets the per-word bit order on the wire for the Bus.
func (b *Bus) SetLSBFirst(lsbFirst bool) error {
	if b.closed {
		return ErrClosed
	}
	var v uint8
	if lsbFirst {
		v = 1
	}
	if err := b.t.writeU8(spiIocWrLSBFirst, v); err != nil {
		return errors.Wrap(err, "setting bit order")
	}
	return nil
}

// DevPath returns the path to the spidev device.
//
// e.g. "/dev/spidev0.0"
func (b *Bus) DevPath() string {
	return b.path
}
