// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package spidev

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufAddr(b *Buffer) uint64 {
	return uint64(uintptr(unsafe.Pointer(&b.Bytes()[0])))
}

func TestTransferValidate(t *testing.T) {
	shared := WrapBuffer(make([]byte, 4))
	patterns := []struct {
		name string
		tr   Transfer
		err  error
	}{
		{"empty", Transfer{}, ErrEmptyTransfer},
		{"tx only", Transfer{Tx: WrapReadOnly([]byte{1, 2})}, nil},
		{"rx only", Transfer{Rx: NewBuffer(2)}, nil},
		{"both equal", Transfer{Tx: WrapBuffer([]byte{1, 2}), Rx: NewBuffer(2)}, nil},
		{"mismatched lengths", Transfer{Tx: WrapBuffer([]byte{1, 2, 3}), Rx: NewBuffer(2)}, ErrLengthMismatch},
		{"read-only rx", Transfer{Rx: WrapReadOnly([]byte{1, 2})}, ErrInvalidBufferRole},
		{"aliased", Transfer{Tx: shared, Rx: shared}, nil},
		{"aliased read-only", func() Transfer {
			ro := WrapReadOnly([]byte{1, 2})
			return Transfer{Tx: ro, Rx: ro}
		}(), ErrInvalidBufferRole},
		{"zero length buffers", Transfer{Tx: WrapBuffer(nil), Rx: NewBuffer(0)}, ErrEmptyTransfer},
	}
	for _, p := range patterns {
		p := p
		t.Run(p.name, func(t *testing.T) {
			err := p.tr.validate()
			if p.err == nil {
				assert.Nil(t, err)
			} else {
				assert.ErrorIs(t, err, p.err)
			}
		})
	}
}

func TestNewTransferList(t *testing.T) {
	l, err := NewTransferList(
		Transfer{Tx: WrapReadOnly([]byte{1, 2})},
		Transfer{Rx: NewBuffer(3)},
	)
	require.Nil(t, err)
	assert.Equal(t, 2, l.Len())

	// fail fast on the first invalid transfer
	l, err = NewTransferList(
		Transfer{Tx: WrapReadOnly([]byte{1, 2})},
		Transfer{},
	)
	assert.ErrorIs(t, err, ErrEmptyTransfer)
	assert.Nil(t, l)
}

func TestTransferListAppend(t *testing.T) {
	var l TransferList
	err := l.Append(Transfer{Tx: WrapReadOnly([]byte{1})})
	assert.Nil(t, err)
	assert.Equal(t, 1, l.Len())

	err = l.Append(Transfer{Tx: WrapBuffer([]byte{1, 2}), Rx: NewBuffer(3)})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Equal(t, 1, l.Len())
}

func TestTransferListAt(t *testing.T) {
	rx := NewBuffer(2)
	l, err := NewTransferList(
		Transfer{Tx: WrapReadOnly([]byte{1, 2})},
		Transfer{Rx: rx},
	)
	require.Nil(t, err)
	assert.Same(t, rx, l.At(1).Rx)
	assert.Nil(t, l.At(0).Rx)
}

func TestPackEmpty(t *testing.T) {
	var l TransferList
	raw, err := l.pack(0, 0)
	assert.ErrorIs(t, err, ErrEmptyBatch)
	assert.Nil(t, raw)
}

func TestPackRecords(t *testing.T) {
	tx := WrapReadOnly([]byte{1, 2, 3})
	rx := NewBuffer(2)
	l, err := NewTransferList(
		Transfer{
			Tx:             tx,
			DelayUsecs:     10,
			CSChange:       true,
			TxNBits:        4,
			WordDelayUsecs: 2,
		},
		Transfer{Rx: rx, RxNBits: 2},
	)
	require.Nil(t, err)
	raw, err := l.pack(0, 0)
	require.Nil(t, err)
	require.Equal(t, 2, len(raw))

	r := raw[0]
	assert.Equal(t, bufAddr(tx), r.txBuf)
	assert.Equal(t, uint64(0), r.rxBuf)
	assert.Equal(t, uint32(3), r.length)
	assert.Equal(t, uint16(10), r.delayUsecs)
	assert.Equal(t, uint8(1), r.csChange)
	assert.Equal(t, uint8(4), r.txNBits)
	assert.Equal(t, uint8(0), r.rxNBits)
	assert.Equal(t, uint8(2), r.wordDelayUsecs)

	r = raw[1]
	assert.Equal(t, uint64(0), r.txBuf)
	assert.Equal(t, bufAddr(rx), r.rxBuf)
	assert.Equal(t, uint32(2), r.length)
	assert.Equal(t, uint8(0), r.csChange)
	assert.Equal(t, uint8(2), r.rxNBits)
}

func TestPackDefaults(t *testing.T) {
	l, err := NewTransferList(
		Transfer{Tx: WrapReadOnly([]byte{1}), SpeedHz: 250000, BitsPerWord: 16},
		Transfer{Tx: WrapReadOnly([]byte{1})},
	)
	require.Nil(t, err)

	// transfer override beats bus default
	raw, err := l.pack(1000000, 8)
	require.Nil(t, err)
	assert.Equal(t, uint32(250000), raw[0].speedHz)
	assert.Equal(t, uint8(16), raw[0].bitsPerWord)
	assert.Equal(t, uint32(1000000), raw[1].speedHz)
	assert.Equal(t, uint8(8), raw[1].bitsPerWord)

	// unset bus default left as zero for the driver
	raw, err = l.pack(0, 0)
	require.Nil(t, err)
	assert.Equal(t, uint32(0), raw[1].speedHz)
	assert.Equal(t, uint8(0), raw[1].bitsPerWord)
}

func TestPackAliased(t *testing.T) {
	shared := WrapBuffer([]byte{0x12, 0x34})
	l, err := NewTransferList(Transfer{Tx: shared, Rx: shared})
	require.Nil(t, err)
	raw, err := l.pack(0, 0)
	require.Nil(t, err)
	assert.Equal(t, bufAddr(shared), raw[0].txBuf)
	assert.Equal(t, raw[0].txBuf, raw[0].rxBuf)
	assert.Equal(t, uint32(2), raw[0].length)
}

func TestRawTransferLayout(t *testing.T) {
	// must match struct spi_ioc_transfer in linux/spi/spidev.h bit-for-bit
	var r spiIocTransfer
	assert.Equal(t, uintptr(32), unsafe.Sizeof(r))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(r.txBuf))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(r.rxBuf))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(r.length))
	assert.Equal(t, uintptr(20), unsafe.Offsetof(r.speedHz))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(r.delayUsecs))
	assert.Equal(t, uintptr(26), unsafe.Offsetof(r.bitsPerWord))
	assert.Equal(t, uintptr(27), unsafe.Offsetof(r.csChange))
	assert.Equal(t, uintptr(28), unsafe.Offsetof(r.txNBits))
	assert.Equal(t, uintptr(29), unsafe.Offsetof(r.rxNBits))
	assert.Equal(t, uintptr(30), unsafe.Offsetof(r.wordDelayUsecs))
	assert.Equal(t, uintptr(31), unsafe.Offsetof(r.pad))
}

func TestRequestCodes(t *testing.T) {
	assert.Equal(t, uintptr(0x80016b01), spiIocRdMode)
	assert.Equal(t, uintptr(0x40016b01), spiIocWrMode)
	assert.Equal(t, uintptr(0x80016b02), spiIocRdLSBFirst)
	assert.Equal(t, uintptr(0x40016b02), spiIocWrLSBFirst)
	assert.Equal(t, uintptr(0x80016b03), spiIocRdBitsPerWord)
	assert.Equal(t, uintptr(0x40016b03), spiIocWrBitsPerWord)
	assert.Equal(t, uintptr(0x80046b04), spiIocRdMaxSpeedHz)
	assert.Equal(t, uintptr(0x40046b04), spiIocWrMaxSpeedHz)
	assert.Equal(t, uintptr(0x80046b05), spiIocRdMode32)
	assert.Equal(t, uintptr(0x40046b05), spiIocWrMode32)
}

func TestSpiIocMessage(t *testing.T) {
	assert.Equal(t, uintptr(0x40206b00), spiIocMessage(1))
	assert.Equal(t, uintptr(0x40406b00), spiIocMessage(2))
	// out of range batch sizes encode as zero length
	assert.Equal(t, uintptr(0x40006b00), spiIocMessage(0))
	assert.Equal(t, uintptr(0x40006b00), spiIocMessage(512))
	assert.Equal(t, uintptr(0x40006b00), spiIocMessage(-1))
}
