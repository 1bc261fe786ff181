// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package spidev

import "unsafe"

// Mode contains the SPI mode flags, as defined in linux/spi/spi.h.
//
// The lower two bits select the clock polarity and phase, with the classic
// mode numbers available as [Mode0] through [Mode3].  The remaining bits
// control chip select polarity, bit order, and the number of data lines used
// in each direction.
type Mode uint32

const (
	// ModeCPHA selects sampling on the trailing clock edge.
	ModeCPHA Mode = 1 << iota

	// ModeCPOL selects an idle-high clock.
	ModeCPOL

	// ModeCSHigh selects an active-high chip select.
	ModeCSHigh

	// ModeLSBFirst selects least significant bit first per-word bit order
	// on the wire.
	ModeLSBFirst

	// Mode3Wire indicates the SI/SO lines are shared.
	Mode3Wire

	// ModeLoop enables controller loopback, where supported.
	ModeLoop

	// ModeNoCS indicates a single device on the bus with no chip select.
	ModeNoCS

	// ModeReady indicates the device pulls low to pause the transfer.
	ModeReady

	// ModeTxDual transmits on 2 data lines.
	ModeTxDual

	// ModeTxQuad transmits on 4 data lines.
	ModeTxQuad

	// ModeRxDual receives on 2 data lines.
	ModeRxDual

	// ModeRxQuad receives on 4 data lines.
	ModeRxQuad

	// ModeCSWord toggles chip select after each word.
	ModeCSWord

	// ModeTxOctal transmits on 8 data lines.
	ModeTxOctal

	// ModeRxOctal receives on 8 data lines.
	ModeRxOctal

	// Mode3WireHiZ selects a high impedance turnaround on shared SI/SO.
	Mode3WireHiZ
)

const (
	// Mode0 selects an idle-low clock sampling on the leading edge.
	Mode0 Mode = 0

	// Mode1 selects an idle-low clock sampling on the trailing edge.
	Mode1 = ModeCPHA

	// Mode2 selects an idle-high clock sampling on the leading edge.
	Mode2 = ModeCPOL

	// Mode3 selects an idle-high clock sampling on the trailing edge.
	Mode3 = ModeCPOL | ModeCPHA
)

// spiIocTransfer is the fixed layout of one transfer record in the message
// ioctl, mirroring struct spi_ioc_transfer in linux/spi/spidev.h.
//
// The buffer addresses are raw user-space pointers, or 0 for an absent
// buffer.  Zeroed override fields leave the corresponding bus default in
// effect.
type spiIocTransfer struct {
	txBuf uint64
	rxBuf uint64

	length  uint32
	speedHz uint32

	delayUsecs     uint16
	bitsPerWord    uint8
	csChange       uint8
	txNBits        uint8
	rxNBits        uint8
	wordDelayUsecs uint8
	pad            uint8
}

// ioctl request construction, as per asm-generic/ioctl.h.
const (
	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocWrite = 1
	iocRead  = 2

	// the spidev ioctl type ('k').
	iocMagic = 0x6b
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<iocDirShift | size<<iocSizeShift | iocMagic<<iocTypeShift | nr<<iocNrShift
}

func ior(nr, size uintptr) uintptr {
	return ioc(iocRead, nr, size)
}

func iow(nr, size uintptr) uintptr {
	return ioc(iocWrite, nr, size)
}

// spidev.h request codes.
var (
	spiIocRdMode        = ior(1, 1)
	spiIocWrMode        = iow(1, 1)
	spiIocRdLSBFirst    = ior(2, 1)
	spiIocWrLSBFirst    = iow(2, 1)
	spiIocRdBitsPerWord = ior(3, 1)
	spiIocWrBitsPerWord = iow(3, 1)
	spiIocRdMaxSpeedHz  = ior(4, 4)
	spiIocWrMaxSpeedHz  = iow(4, 4)
	spiIocRdMode32      = ior(5, 4)
	spiIocWrMode32      = iow(5, 4)
)

// spiIocMessage returns the request code for a batch of n transfer records.
func spiIocMessage(n int) uintptr {
	size := uintptr(n) * unsafe.Sizeof(spiIocTransfer{})
	if n < 0 || size >= 1<<iocSizeBits {
		size = 0
	}
	return iow(0, size)
}
