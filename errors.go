// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package spidev

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var (
	// ErrClosed indicates an operation was attempted on a closed Bus.
	ErrClosed = errors.New("bus is closed")

	// ErrEmptyTransfer indicates a transfer with neither a transmit nor a
	// receive buffer.
	ErrEmptyTransfer = errors.New("transfer requires a tx or rx buffer")

	// ErrEmptyBatch indicates an attempt to submit a transfer list
	// containing no transfers.
	ErrEmptyBatch = errors.New("transfer list is empty")

	// ErrLengthMismatch indicates a transfer with both buffers present but
	// of differing lengths.
	ErrLengthMismatch = errors.New("tx and rx buffer lengths differ")

	// ErrInvalidSpeed indicates a zero clock speed.
	ErrInvalidSpeed = errors.New("speed must be non-zero")

	// ErrInvalidBufferRole indicates a read-only buffer used as a receive
	// target, either directly or by aliasing the transmit buffer.
	ErrInvalidBufferRole = errors.New("read-only buffer cannot be a receive target")

	// ErrUnsupportedCSChange indicates a batch requesting per-transfer chip
	// select release on a Bus driving chip select from a GPIO line.
	ErrUnsupportedCSChange = errors.New("cs change is not supported with a GPIO chip select")
)

// TransferError indicates the driver rejected or failed a submitted batch.
//
// The batch is all or nothing at the driver boundary, so no part of a failed
// batch has been exchanged.  The error is reported verbatim and the submit
// is not retried.
type TransferError struct {
	// The errno returned by the message ioctl.
	Errno unix.Errno
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("spi transfer failed: %s", e.Errno.Error())
}

func (e *TransferError) Unwrap() error {
	return e.Errno
}
