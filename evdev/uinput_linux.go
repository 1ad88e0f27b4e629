// go-ft8756
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-ft8756.
//
// go-ft8756 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-ft8756 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-ft8756; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

//go:build linux

package evdev

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const busVirtual = 0x06

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputSetup mirrors struct uinput_setup
type uinputSetup struct {
	ID           inputID
	Name         [80]byte
	FFEffectsMax uint32
}

// absInfo mirrors struct input_absinfo
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// uinputAbsSetup mirrors struct uinput_abs_setup
type uinputAbsSetup struct {
	Code    uint16
	_       uint16
	AbsInfo absInfo
}

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocNone  = 0
	iocWrite = 1
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift
}

var (
	uiDevCreate  = ioc(iocNone, 'U', 1, 0)
	uiDevDestroy = ioc(iocNone, 'U', 2, 0)
	uiDevSetup   = ioc(iocWrite, 'U', 3, unsafe.Sizeof(uinputSetup{}))
	uiAbsSetup   = ioc(iocWrite, 'U', 4, unsafe.Sizeof(uinputAbsSetup{}))
	uiSetEvBit   = ioc(iocWrite, 'U', 100, unsafe.Sizeof(int32(0)))
	uiSetKeyBit  = ioc(iocWrite, 'U', 101, unsafe.Sizeof(int32(0)))
	uiSetAbsBit  = ioc(iocWrite, 'U', 103, unsafe.Sizeof(int32(0)))
	uiSetPropBit = ioc(iocWrite, 'U', 110, unsafe.Sizeof(int32(0)))
)

func ioctl(fd, req, arg uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, arg); errno != 0 {
		return errno
	}
	return nil
}

// OpenUinput creates a virtual multitouch screen named name
func OpenUinput(name string, props Properties) (*Uinput, error) {
	f, err := os.OpenFile(UinputPath, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", UinputPath, err)
	}

	if err := setupDevice(f.Fd(), name, props); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Uinput{Writer: NewWriter(f, props), file: f}, nil
}

func setupDevice(fd uintptr, name string, props Properties) error {
	bits := []struct {
		what string
		req  uintptr
		arg  uintptr
	}{
		{"EV_KEY", uiSetEvBit, EvKey},
		{"BTN_TOUCH", uiSetKeyBit, BtnTouch},
		{"EV_ABS", uiSetEvBit, EvAbs},
		{"INPUT_PROP_DIRECT", uiSetPropBit, InputPropDirect},
	}
	for _, b := range bits {
		if err := ioctl(fd, b.req, b.arg); err != nil {
			return fmt.Errorf("uinput set %s: %w", b.what, err)
		}
	}

	for _, axis := range Axes(props) {
		if err := ioctl(fd, uiSetAbsBit, uintptr(axis.Code)); err != nil {
			return fmt.Errorf("uinput set abs 0x%02X: %w", axis.Code, err)
		}
		setup := uinputAbsSetup{
			Code:    axis.Code,
			AbsInfo: absInfo{Minimum: axis.Min, Maximum: axis.Max},
		}
		if err := ioctl(fd, uiAbsSetup, uintptr(unsafe.Pointer(&setup))); err != nil {
			return fmt.Errorf("uinput abs setup 0x%02X: %w", axis.Code, err)
		}
	}

	setup := uinputSetup{ID: inputID{Bustype: busVirtual}}
	copy(setup.Name[:len(setup.Name)-1], name)
	if err := ioctl(fd, uiDevSetup, uintptr(unsafe.Pointer(&setup))); err != nil {
		return fmt.Errorf("uinput dev setup: %w", err)
	}
	if err := ioctl(fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("uinput dev create: %w", err)
	}
	return nil
}

func (u *Uinput) destroy() error {
	destroyErr := ioctl(u.file.Fd(), uiDevDestroy, 0)
	if destroyErr != nil {
		destroyErr = fmt.Errorf("uinput dev destroy: %w", destroyErr)
	}
	return errors.Join(destroyErr, u.file.Close())
}
