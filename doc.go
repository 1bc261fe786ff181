// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package spidev is a library for accessing SPI devices through the Linux
spidev uAPI.

The devices are exposed by the Linux [spidev] driver as character devices,
typically /dev/spidevB.C, and require a kernel built with CONFIG_SPI_SPIDEV
and the device bound to the spidev driver.

A [Bus] is opened from the device path, optionally with default transfer
parameters, and must be closed when no longer required.  Closing the Bus is
idempotent, so it is safe to unconditionally defer the close.

Simple half-duplex exchanges are performed with [Bus.Read] and [Bus.Write],
and single full-duplex exchanges with [Bus.Transfer].  Where an operation
requires several exchanges with controlled chip select behaviour between
them, a [TransferList] describes the exchanges and [Bus.SubmitTransferList]
submits them to the driver as one batch in a single syscall.

Each [Transfer] in a batch exchanges the contents of a transmit [Buffer] for
the contents of a receive [Buffer].  Either buffer may be omitted for one
directional exchanges.  The same buffer may be used for both directions to
exchange in place.  Buffers wrap caller provided storage, so the received
bytes are written directly into that storage by the driver with no
intermediate copies.

A Bus is not safe for concurrent use.  A caller sharing a Bus between
goroutines must serialize its calls, and must not modify, resize or free the
storage referenced by a TransferList while a submit is in flight.

# Example Usage

Exchange four bytes with a device, receiving into an allocated buffer:

	b, err := spidev.Open("/dev/spidev0.0",
		spidev.WithSpeed(1000000),
		spidev.WithBitsPerWord(8),
	)
	defer b.Close()
	rx, err := b.Transfer(spidev.Transfer{
		Tx: spidev.WrapReadOnly([]byte{0x12, 0x34, 0x00, 0x00}),
	})

Write a command then read the response, holding chip select asserted
across both exchanges:

	rx := spidev.NewBuffer(2)
	var l spidev.TransferList
	err := l.Append(spidev.Transfer{Tx: spidev.WrapReadOnly(cmd)})
	err = l.Append(spidev.Transfer{Rx: rx})
	err = b.SubmitTransferList(&l)

[spidev]: https://www.kernel.org/doc/html/latest/spi/spidev.html
*/
package spidev
