// Package gpt builds a validated partition table and serializes it into an
// on-disk GUID Partition Table with a protective MBR in front.
package gpt

// Partition is one logical partition: a name, an inclusive LBA range, a
// type GUID and attribute flags. It has no identity of its own; its slot in
// the entry array comes from its position in the Table.
type Partition struct {
	Name       string
	Start      uint64
	End        uint64
	Attributes uint64
	Type       Type
}

func within(x, lo, hi uint64) bool {
	return x >= lo && x <= hi
}

// Overlaps reports whether the two partitions share any sector. Both ends
// of the range are inclusive.
func (p Partition) Overlaps(o Partition) bool {
	return within(p.Start, o.Start, o.End) || within(p.End, o.Start, o.End) ||
		within(o.Start, p.Start, p.End) || within(o.End, p.Start, p.End)
}

// OverlapsRange is Overlaps against an arbitrary inclusive sector range.
func (p Partition) OverlapsRange(start, end uint64) bool {
	return p.Overlaps(Partition{Start: start, End: end})
}

// OverlapsAny reports whether p overlaps any member of parts.
func (p Partition) OverlapsAny(parts []Partition) bool {
	for _, o := range parts {
		if p.Overlaps(o) {
			return true
		}
	}
	return false
}

// Size returns the partition's sector count.
func (p Partition) Size() uint64 {
	return p.End - p.Start
}

// ByteSize returns the partition's size in bytes.
func (p Partition) ByteSize(sectorSize uint64) uint64 {
	return p.Size() * sectorSize
}

// Fits reports whether the partition's sector count fits within size sectors.
func (p Partition) Fits(size uint64) bool {
	return p.Size() <= size
}
