// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fx

import (
	"fmt"
	"unsafe"
)

// DerivedGroup recomputes one part of a packed constant buffer.
// Update runs during Sync only while Flag is set, and reads the owner's
// logical parameter values to write the packed fields.
type DerivedGroup[T any] struct {
	Name   string
	Flag   DirtyFlags
	Update func(dst *T)
}

// ConstantBuffer keeps a packed image of type T in sync with a device buffer.
//
// Parameter setters call Mark; nothing is computed or uploaded until Sync.
// Sync recomputes stale groups in declaration order, then uploads the whole
// image once if anything changed. A freshly created buffer is fully dirty, so
// the first Sync always uploads.
//
// ConstantBuffer is not safe for concurrent use.
type ConstantBuffer[T any] struct {
	data    T
	buf     Buffer
	groups  []DerivedGroup[T]
	dirty   DirtyFlags
	uploads uint64
}

// NewConstantBuffer validates T and groups and allocates the device buffer.
func NewConstantBuffer[T any](dev Device, label string, groups ...DerivedGroup[T]) (*ConstantBuffer[T], error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if err := CheckLayout[T](); err != nil {
		return nil, err
	}

	all := DirtyBuffer
	for _, g := range groups {
		switch {
		case g.Update == nil:
			return nil, fmt.Errorf("fx: derived group %q has no update function", g.Name)
		case g.Flag == 0 || g.Flag.Any(DirtyBuffer) || g.Flag.Groups() != 1:
			return nil, fmt.Errorf("fx: derived group %q must own exactly one group bit, got %v", g.Name, g.Flag)
		case all.Any(g.Flag):
			return nil, fmt.Errorf("fx: derived group %q reuses bit %v", g.Name, g.Flag)
		}
		all |= g.Flag
	}

	c := &ConstantBuffer[T]{groups: groups, dirty: all}
	buf, err := dev.CreateConstantBuffer(label, int(unsafe.Sizeof(c.data)))
	if err != nil {
		return nil, fmt.Errorf("fx: create constant buffer %q: %w", label, err)
	}
	c.buf = buf
	return c, nil
}

// Mark records that flags are stale. Marking a group implies a pending upload.
func (c *ConstantBuffer[T]) Mark(flags DirtyFlags) {
	if flags&^DirtyBuffer != 0 {
		flags |= DirtyBuffer
	}
	c.dirty |= flags
}

// Dirty returns the pending flags.
func (c *ConstantBuffer[T]) Dirty() DirtyFlags { return c.dirty }

// Sync brings the device buffer up to date and reports whether it uploaded.
// On upload failure the buffer stays dirty and the next Sync retries.
func (c *ConstantBuffer[T]) Sync(ctx Context) (bool, error) {
	if ctx == nil {
		return false, ErrNilContext
	}
	if c.buf == nil {
		return false, ErrClosed
	}
	for _, g := range c.groups {
		if c.dirty.Has(g.Flag) {
			g.Update(&c.data)
			c.dirty = c.dirty.Clear(g.Flag).Set(DirtyBuffer)
		}
	}
	if !c.dirty.Has(DirtyBuffer) {
		return false, nil
	}
	if err := ctx.UpdateBuffer(c.buf, Bytes(&c.data)); err != nil {
		return false, fmt.Errorf("fx: upload constants: %w", err)
	}
	c.dirty = c.dirty.Clear(DirtyBuffer)
	c.uploads++
	return true, nil
}

// Snapshot returns a copy of the packed image as of the last Sync.
func (c *ConstantBuffer[T]) Snapshot() T { return c.data }

// Uploads returns how many times Sync has uploaded.
func (c *ConstantBuffer[T]) Uploads() uint64 { return c.uploads }

// Buffer returns the device buffer, or nil after Release.
func (c *ConstantBuffer[T]) Buffer() Buffer { return c.buf }

// Release frees the device buffer. It is safe to call more than once.
func (c *ConstantBuffer[T]) Release() {
	if c.buf != nil {
		c.buf.Release()
		c.buf = nil
	}
}
