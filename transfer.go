// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package spidev

import "unsafe"

// Transfer describes one exchange within a batch.
//
// At least one of Tx and Rx must be present.  If both are present they must
// be the same length, which is the length of the exchange.  Tx and Rx may
// reference the same storage to exchange in place.
//
// The override fields, where non-zero, replace the Bus defaults for this
// exchange only.  A batch may therefore address devices or registers
// requiring different clock speeds or word widths without separate
// syscalls.
type Transfer struct {
	// Tx contains the bytes to transmit, or is nil for a receive-only
	// exchange, in which case the driver shifts out zeros.
	Tx *Buffer

	// Rx receives the exchanged bytes, or is nil for a transmit-only
	// exchange, in which case the received bytes are dropped by the
	// driver.  Must not be read-only.
	Rx *Buffer

	// SpeedHz overrides the clock speed for this exchange.
	SpeedHz uint32

	// DelayUsecs is the delay before chip select is changed after this
	// exchange, honoured by the driver.
	DelayUsecs uint16

	// BitsPerWord overrides the word width for this exchange.
	//
	// Supported widths are device and mode dependent, and are checked by
	// the driver, not locally.
	BitsPerWord uint8

	// CSChange requests chip select be released after this exchange,
	// separating it from the next within the batch.
	//
	// By default chip select is held asserted across the whole batch.
	// Note that the driver inverts the sense on the final exchange of a
	// batch: CSChange there holds chip select asserted into the next
	// batch.
	CSChange bool

	// TxNBits overrides the number of data lines used to transmit
	// (1, 2, 4 or 8), where supported by the controller.
	TxNBits uint8

	// RxNBits overrides the number of data lines used to receive
	// (1, 2, 4 or 8), where supported by the controller.
	RxNBits uint8

	// WordDelayUsecs is the delay between consecutive words within this
	// exchange, where supported by the controller.
	WordDelayUsecs uint8
}

func bufLen(b *Buffer) int {
	if b == nil {
		return 0
	}
	return b.Len()
}

// validate checks the internal consistency of the Transfer.
func (t *Transfer) validate() error {
	txLen := bufLen(t.Tx)
	rxLen := bufLen(t.Rx)
	if txLen == 0 && rxLen == 0 {
		return ErrEmptyTransfer
	}
	if txLen != 0 && rxLen != 0 && txLen != rxLen {
		return ErrLengthMismatch
	}
	if rxLen != 0 && t.Rx.ReadOnly() {
		return ErrInvalidBufferRole
	}
	return nil
}

// length returns the exchange length in bytes.
func (t *Transfer) length() int {
	if l := bufLen(t.Tx); l != 0 {
		return l
	}
	return bufLen(t.Rx)
}

// TransferList is an ordered sequence of Transfers submitted to the driver
// as one atomic batch in a single syscall.
//
// The zero value is an empty list ready for use.
//
// Transfers are validated as they are appended, so a list that was built
// without error is structurally valid when it reaches the driver.
type TransferList struct {
	xfers []Transfer
}

// NewTransferList returns a TransferList containing the given transfers.
//
// Fails with the validation error of the first invalid transfer.
func NewTransferList(xfers ...Transfer) (*TransferList, error) {
	l := &TransferList{}
	for _, t := range xfers {
		if err := l.Append(t); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Append validates the transfer and adds it to the end of the list.
func (l *TransferList) Append(t Transfer) error {
	if err := t.validate(); err != nil {
		return err
	}
	l.xfers = append(l.xfers, t)
	return nil
}

// Len returns the number of transfers in the list.
func (l *TransferList) Len() int {
	return len(l.xfers)
}

// At returns the ith transfer in the list.
//
// Typically used to retrieve receive buffers after a submit.
func (l *TransferList) At(i int) *Transfer {
	return &l.xfers[i]
}

// pack produces the raw transfer records handed to the transport.
//
// Unset per-transfer overrides fall back to the given Bus defaults, and
// from there to the driver defaults (left as zero).  The records reference
// the transfer buffers by address and are only valid while those buffers
// are live, so the list must be kept reachable until the submit returns.
func (l *TransferList) pack(speedHz uint32, bitsPerWord uint8) ([]spiIocTransfer, error) {
	if len(l.xfers) == 0 {
		return nil, ErrEmptyBatch
	}
	raw := make([]spiIocTransfer, len(l.xfers))
	for i := range l.xfers {
		t := &l.xfers[i]
		r := &raw[i]
		if bufLen(t.Tx) != 0 {
			r.txBuf = uint64(uintptr(unsafe.Pointer(&t.Tx.b[0])))
		}
		if bufLen(t.Rx) != 0 {
			r.rxBuf = uint64(uintptr(unsafe.Pointer(&t.Rx.b[0])))
		}
		r.length = uint32(t.length())
		r.speedHz = t.SpeedHz
		if r.speedHz == 0 {
			r.speedHz = speedHz
		}
		r.bitsPerWord = t.BitsPerWord
		if r.bitsPerWord == 0 {
			r.bitsPerWord = bitsPerWord
		}
		r.delayUsecs = t.DelayUsecs
		if t.CSChange {
			r.csChange = 1
		}
		r.txNBits = t.TxNBits
		r.rxNBits = t.RxNBits
		r.wordDelayUsecs = t.WordDelayUsecs
	}
	return raw, nil
}

// csChanges returns true if any transfer in the list requests a chip select
// release.
func (l *TransferList) csChanges() bool {
	for i := range l.xfers {
		if l.xfers[i].CSChange {
			return true
		}
	}
	return false
}
