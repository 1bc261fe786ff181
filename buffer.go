// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package spidev

// Buffer is a fixed-length view over a block of bytes used as the source
// and/or destination of a transfer.
//
// The length of the view is fixed at construction and the underlying
// storage is never resized or reallocated by the library.  A read-only
// buffer may only be used as a transmit source and is never written to.
//
// Two buffers, or the one buffer used in both roles, may share storage.
// Aliased transmit and receive views exchange in place, with the driver
// overwriting the transmitted bytes as they are clocked out.
type Buffer struct {
	b  []byte
	ro bool
}

// NewBuffer returns a mutable Buffer over freshly allocated, zeroed storage
// of the given length.
//
// The storage is owned by the returned Buffer, and is retrieved with
// [Buffer.Bytes].
func NewBuffer(length int) *Buffer {
	return &Buffer{b: make([]byte, length)}
}

// WrapBuffer returns a mutable Buffer borrowing the given storage.
//
// The Buffer may be used in either transfer role.  The storage must not be
// modified or freed while a transfer referencing it is in flight.
func WrapBuffer(b []byte) *Buffer {
	return &Buffer{b: b}
}

// WrapReadOnly returns a read-only Buffer borrowing the given storage.
//
// The Buffer may only be used as a transmit source.  Using it as a receive
// target fails with [ErrInvalidBufferRole].
func WrapReadOnly(b []byte) *Buffer {
	return &Buffer{b: b, ro: true}
}

// Len returns the length of the view in bytes.
func (b *Buffer) Len() int {
	return len(b.b)
}

// Bytes returns the bytes underlying the view.
//
// After a successful submit the bytes of a receive buffer are those written
// by the driver.
func (b *Buffer) Bytes() []byte {
	return b.b
}

// ReadOnly returns true if the Buffer is restricted to the transmit role.
func (b *Buffer) ReadOnly() bool {
	return b.ro
}
