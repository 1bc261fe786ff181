// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package spidev

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// transport is the narrow boundary to the spidev character device.
//
// It is the only part of the library touching the OS, so the rest of the
// library can be exercised against a fake.
type transport interface {
	// message performs the batched transfer ioctl.  On success every
	// receive address in the records has been overwritten with the
	// received bytes for its declared length.
	message(raw []spiIocTransfer) error

	readU8(req uintptr) (uint8, error)
	writeU8(req uintptr, v uint8) error
	readU32(req uintptr) (uint32, error)
	writeU32(req uintptr, v uint32) error

	close() error
}

// devTransport implements transport over an open spidev device file.
type devTransport struct {
	f *os.File
}

func (t *devTransport) ioctl(req uintptr, p unsafe.Pointer) unix.Errno {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, t.f.Fd(), req, uintptr(p))
	return errno
}

func (t *devTransport) message(raw []spiIocTransfer) error {
	if errno := t.ioctl(spiIocMessage(len(raw)), unsafe.Pointer(&raw[0])); errno != 0 {
		return &TransferError{Errno: errno}
	}
	return nil
}

func (t *devTransport) readU8(req uintptr) (uint8, error) {
	var v uint8
	if errno := t.ioctl(req, unsafe.Pointer(&v)); errno != 0 {
		return 0, errno
	}
	return v, nil
}

func (t *devTransport) writeU8(req uintptr, v uint8) error {
	if errno := t.ioctl(req, unsafe.Pointer(&v)); errno != 0 {
		return errno
	}
	return nil
}

func (t *devTransport) readU32(req uintptr) (uint32, error) {
	var v uint32
	if errno := t.ioctl(req, unsafe.Pointer(&v)); errno != 0 {
		return 0, errno
	}
	return v, nil
}

func (t *devTransport) writeU32(req uintptr, v uint32) error {
	if errno := t.ioctl(req, unsafe.Pointer(&v)); errno != 0 {
		return errno
	}
	return nil
}

func (t *devTransport) close() error {
	return t.f.Close()
}
