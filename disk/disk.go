// Package disk models the geometry of a raw disk image: total sectors,
// sector size, and the space reserved at each end of the device for the
// partition label.
package disk

import (
	"errors"
	"fmt"
)

const (
	// minReserved is the byte size of one full GPT entry array,
	// 128 entries of 128 bytes each, reserved near both ends of the disk.
	minReserved = 16384

	headerSectors = 2
)

// ErrDiskTooSmall means the disk cannot hold two partition labels plus margin.
var ErrDiskTooSmall = errors.New("disk too small for two partition labels")

// Disk describes the geometry of a raw disk image.
type Disk struct {
	Sectors    uint64
	SectorSize uint64
}

// New builds a Disk from a byte size and a sector size. Sizes that are not
// a sector multiple are rounded down to whole sectors.
func New(size, sectorSize uint64) (*Disk, error) {
	sectors := size / sectorSize
	if sectors <= 2*minReserved+4*sectorSize {
		return nil, fmt.Errorf("%d sectors of %d bytes: %w", sectors, sectorSize, ErrDiskTooSmall)
	}
	return &Disk{Sectors: sectors, SectorSize: sectorSize}, nil
}

// Size returns the usable byte size of the disk, whole sectors only.
func (d *Disk) Size() uint64 {
	return d.Sectors * d.SectorSize
}

// LabelSectors returns the sectors consumed by one partition label: the
// entry array, two header sectors and the protective MBR boundary sector.
// Independent of how many partitions are in use.
func (d *Disk) LabelSectors() uint64 {
	return minReserved/d.SectorSize + headerSectors + 1
}

// LabelSize returns the byte size of one partition label.
func (d *Disk) LabelSize() uint64 {
	return d.LabelSectors() * d.SectorSize
}

// FirstUsableSector returns the first LBA past the reserved label region.
func (d *Disk) FirstUsableSector() uint64 {
	return d.LabelSectors()
}

// MiB returns the sector count covering n MiB on this disk.
func (d *Disk) MiB(n uint64) uint64 {
	return (n << 20) / d.SectorSize
}
