package gpt

import (
	"errors"
	"fmt"
	"io"

	"gptstamp/disk"
)

// Validation errors returned by Table.Append.
var (
	ErrPartitionOverlap = errors.New("partition overlaps an existing partition")
	ErrLabelOverlap     = errors.New("partition overlaps the reserved label region")
	ErrPartitionTooBig  = errors.New("partition does not fit on the disk")
)

// Table is an ordered collection of partitions. Insertion order determines
// the entry-array slot order on disk. The zero value is an empty table.
type Table struct {
	// GUIDs supplies the disk and partition identifiers stamped during
	// Commit. Nil means RandomGUIDs.
	GUIDs GUIDSource

	parts []Partition
}

// Append validates p against the table and the disk geometry, then appends
// it and returns its index. On any failure the table is left unchanged.
// Checks run in order: overlap with existing partitions, overlap with the
// reserved label region, size against the disk.
func (t *Table) Append(d *disk.Disk, p Partition) (int, error) {
	if p.OverlapsAny(t.parts) {
		return 0, fmt.Errorf("%q [%d,%d]: %w", p.Name, p.Start, p.End, ErrPartitionOverlap)
	}
	if p.OverlapsRange(0, d.LabelSectors()) {
		return 0, fmt.Errorf("%q [%d,%d] vs label [0,%d]: %w", p.Name, p.Start, p.End, d.LabelSectors(), ErrLabelOverlap)
	}
	if !p.Fits(d.Sectors) {
		return 0, fmt.Errorf("%q spans %d of %d sectors: %w", p.Name, p.Size(), d.Sectors, ErrPartitionTooBig)
	}
	t.parts = append(t.parts, p)
	return len(t.parts) - 1, nil
}

// AppendUnchecked appends p without validation and returns its index.
// For callers that have already validated placement themselves.
func (t *Table) AppendUnchecked(p Partition) int {
	t.parts = append(t.parts, p)
	return len(t.parts) - 1
}

// Len returns the number of partitions in the table.
func (t *Table) Len() int {
	return len(t.parts)
}

// Partitions returns a copy of the table's partitions in slot order.
func (t *Table) Partitions() []Partition {
	return append([]Partition(nil), t.parts...)
}

// Entries converts the table into on-disk entries in slot order. Each entry
// gets a fresh GUID from the table's source and the partition name encoded
// into the fixed UTF-16 field.
func (t *Table) Entries() ([]Entry, error) {
	guids := t.GUIDs
	if guids == nil {
		guids = RandomGUIDs
	}
	entries := make([]Entry, 0, len(t.parts))
	for _, p := range t.parts {
		name, err := encodeName(p.Name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Type:       p.Type,
			GUID:       guids(),
			Start:      p.Start,
			End:        p.End,
			Attributes: p.Attributes,
			Name:       name,
		})
	}
	return entries, nil
}

// Commit converts the table into entries and writes the full on-disk layout
// into w: protective MBR, both entry-array copies and both headers. The
// entries that were written are returned. w must cover the whole disk; the
// caller owns it and keeps it open.
func (t *Table) Commit(d *disk.Disk, w io.WriterAt) ([]Entry, error) {
	entries, err := t.Entries()
	if err != nil {
		return nil, err
	}
	guids := t.GUIDs
	if guids == nil {
		guids = RandomGUIDs
	}
	if err := Write(d.Sectors, d.SectorSize, entries, w, guids); err != nil {
		return nil, err
	}
	return entries, nil
}
