// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package spidev

import (
	"github.com/warthog618/go-gpiocdev"
)

// chipSelect drives an out-of-band chip select line around a batch.
type chipSelect interface {
	assert() error
	deassert() error
	close() error
}

// gpioCS drives a GPIO line as the chip select.
//
// The line is requested active-low, so a logical 1 drives the physical line
// low, selecting the device.
type gpioCS struct {
	line *gpiocdev.Line
}

func newGPIOCS(chip string, offset int) (*gpioCS, error) {
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.AsActiveLow,
		gpiocdev.WithConsumer("go-spidev"),
	)
	if err != nil {
		return nil, err
	}
	return &gpioCS{line: l}, nil
}

func (c *gpioCS) assert() error {
	return c.line.SetValue(1)
}

func (c *gpioCS) deassert() error {
	return c.line.SetValue(0)
}

func (c *gpioCS) close() error {
	return c.line.Close()
}
