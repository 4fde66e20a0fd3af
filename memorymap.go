// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"fmt"
	"strings"
)

type MemoryRegionKind uint8

const (
	MemoryRegionFlash MemoryRegionKind = iota
	MemoryRegionRam
)

func (k MemoryRegionKind) toString() string {
	if k == MemoryRegionFlash {
		return "flash"
	} else {
		return "ram"
	}
}

// MemoryRegion is one contiguous address range of the target. BlockSize is
// the erase granularity and only meaningful for flash regions.
type MemoryRegion struct {
	Kind      MemoryRegionKind
	Start     uint32
	Length    uint32
	BlockSize uint32
}

func (r *MemoryRegion) End() uint32 {
	return r.Start + r.Length
}

func (r *MemoryRegion) Contains(addr uint32) bool {
	return addr >= r.Start && addr < r.End()
}

func (r *MemoryRegion) ContainsRange(start uint32, length uint32) bool {
	if length == 0 {
		return r.Contains(start)
	}

	return r.Contains(start) && r.Contains(start+length-1)
}

type MemoryMap struct {
	regions []MemoryRegion
}

func NewMemoryMap(regions ...MemoryRegion) *MemoryMap {
	return &MemoryMap{regions: regions}
}

func (m *MemoryMap) Regions() []MemoryRegion {
	return m.regions
}

// RegionForAddress returns the region containing addr or nil when the
// address maps to no known memory.
func (m *MemoryMap) RegionForAddress(addr uint32) *MemoryRegion {
	for i := range m.regions {
		if m.regions[i].Contains(addr) {
			return &m.regions[i]
		}
	}

	return nil
}

func (m *MemoryMap) FirstRegionOfKind(kind MemoryRegionKind) *MemoryRegion {
	for i := range m.regions {
		if m.regions[i].Kind == kind {
			return &m.regions[i]
		}
	}

	return nil
}

// GdbXml renders the map in the GDB memory-map DTD so a gdbserver sitting on
// top of the probe can hand it out verbatim.
func (m *MemoryMap) GdbXml() string {
	var sb strings.Builder

	sb.WriteString("<?xml version=\"1.0\"?>\n")
	sb.WriteString("<!DOCTYPE memory-map PUBLIC \"+//IDN gnu.org//DTD GDB Memory Map V1.0//EN\" \"http://sourceware.org/gdb/gdb-memory-map.dtd\">\n")
	sb.WriteString("<memory-map>\n")

	for i := range m.regions {
		r := &m.regions[i]

		if r.Kind == MemoryRegionFlash {
			sb.WriteString(fmt.Sprintf("    <memory type=\"%s\" start=\"0x%08x\" length=\"0x%x\"> <property name=\"blocksize\">0x%x</property></memory>\n",
				r.Kind.toString(), r.Start, r.Length, r.BlockSize))
		} else {
			sb.WriteString(fmt.Sprintf("    <memory type=\"%s\" start=\"0x%08x\" length=\"0x%x\"> </memory>\n",
				r.Kind.toString(), r.Start, r.Length))
		}
	}

	sb.WriteString("</memory-map>\n")

	return sb.String()
}

// MemoryMap derives the two-region map implied by a target record.
func (t *TargetConfig) MemoryMap() *MemoryMap {
	return NewMemoryMap(
		MemoryRegion{
			Kind:      MemoryRegionFlash,
			Start:     t.FlashStart,
			Length:    t.FlashSize(),
			BlockSize: t.SectorSize,
		},
		MemoryRegion{
			Kind:   MemoryRegionRam,
			Start:  t.RamStart,
			Length: t.RamSize(),
		},
	)
}
