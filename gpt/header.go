package gpt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	uuid "github.com/google/uuid"

	"gptstamp/disk"
	"gptstamp/mbr"
)

const (
	// HeaderSize is the significant byte length of a GPT header.
	HeaderSize = 92

	primaryHeaderLBA = 1
	primaryArrayLBA  = 2

	// alignSectors is the optimal-alignment unit, 1 MiB at 512-byte sectors.
	alignSectors = 2048
)

// ErrBackupTooEarly means the computed backup header location does not come
// after the primary header.
var ErrBackupTooEarly = errors.New("backup header location not after primary header")

var (
	efiSignature = []byte("EFI PART")
	efiRevision  = []byte{0x00, 0x00, 0x01, 0x00}
)

// FirstUsableSector returns the first LBA available for partition placement
// once the entry array, two header sectors and the protective MBR boundary
// are reserved.
func FirstUsableSector(sectorSize uint64) uint64 {
	return EntryCount*EntrySize/sectorSize + 2 + 1
}

// AlignOptimal rounds lba up to the next 2048-sector multiple. Advisory
// only; Write never enforces alignment.
func AlignOptimal(lba uint64) uint64 {
	if lba%alignSectors == 0 {
		return lba
	}
	return (lba/alignSectors + 1) * alignSectors
}

// header holds one GPT header's field values. The primary and backup
// headers are two independent values built from the same layout; neither is
// derived by mutating the other.
type header struct {
	self        uint64
	alt         uint64
	firstUsable uint64
	lastUsable  uint64
	diskGUID    uuid.UUID
	tableLBA    uint64
	entryCount  uint32
	entrySize   uint32
	tableCRC    uint32
}

// toBytes serializes the 92 significant header bytes. The self-checksum
// covers those bytes with its own field held at zero, then lands at
// offset 16.
func (h header) toBytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:8], efiSignature)
	copy(b[8:12], efiRevision)
	binary.LittleEndian.PutUint32(b[12:16], HeaderSize)
	// b[16:20] is the self-checksum, zero while checksumming
	// b[20:24] reserved
	binary.LittleEndian.PutUint64(b[24:32], h.self)
	binary.LittleEndian.PutUint64(b[32:40], h.alt)
	binary.LittleEndian.PutUint64(b[40:48], h.firstUsable)
	binary.LittleEndian.PutUint64(b[48:56], h.lastUsable)
	copy(b[56:72], guidToBytes(h.diskGUID))
	binary.LittleEndian.PutUint64(b[72:80], h.tableLBA)
	binary.LittleEndian.PutUint32(b[80:84], h.entryCount)
	binary.LittleEndian.PutUint32(b[84:88], h.entrySize)
	binary.LittleEndian.PutUint32(b[88:92], h.tableCRC)
	binary.LittleEndian.PutUint32(b[16:20], crc32.ChecksumIEEE(b))
	return b
}

// entryArrayBytes serializes entries into a full zero-padded entry array.
// The array checksum covers this entire buffer, used slots and empty ones.
func entryArrayBytes(entries []Entry) ([]byte, error) {
	if len(entries) > EntryCount {
		return nil, fmt.Errorf("%d entries exceed the %d-slot entry array", len(entries), EntryCount)
	}
	b := make([]byte, EntryCount*EntrySize)
	for i, e := range entries {
		eb, err := e.toBytes()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		copy(b[i*EntrySize:(i+1)*EntrySize], eb)
	}
	return b, nil
}

// Write stamps the complete on-disk layout into w: the protective MBR, the
// entry array at LBA 2 and mirrored just below the last sector, the primary
// header at LBA 1 and the backup header at the last sector. Array writes
// precede header writes because both headers checksum the array contents;
// the backup header reuses the already-computed array checksum.
func Write(totalSectors, sectorSize uint64, entries []Entry, w io.WriterAt, guids GUIDSource) error {
	arraySectors := EntryCount * EntrySize / sectorSize
	backupHeaderLBA := totalSectors - 1
	backupArrayLBA := backupHeaderLBA - arraySectors

	if (arraySectors+2)*2 >= totalSectors {
		return fmt.Errorf("%d sectors cannot hold two partition labels: %w", totalSectors, disk.ErrDiskTooSmall)
	}
	if primaryHeaderLBA >= backupHeaderLBA {
		return fmt.Errorf("backup header at LBA %d: %w", backupHeaderLBA, ErrBackupTooEarly)
	}

	if err := mbr.WriteProtective(w); err != nil {
		return err
	}

	padded, err := entryArrayBytes(entries)
	if err != nil {
		return err
	}
	tableCRC := crc32.ChecksumIEEE(padded)

	// only the used slots hit the disk, identical bytes in both copies
	used := padded[:len(entries)*EntrySize]
	if _, err := w.WriteAt(used, int64(primaryArrayLBA*sectorSize)); err != nil {
		return fmt.Errorf("writing primary entry array: %w", err)
	}
	if _, err := w.WriteAt(used, int64(backupArrayLBA*sectorSize)); err != nil {
		return fmt.Errorf("writing backup entry array: %w", err)
	}

	if guids == nil {
		guids = RandomGUIDs
	}
	base := header{
		firstUsable: arraySectors + 2,
		lastUsable:  backupArrayLBA - 1,
		diskGUID:    guids(),
		entryCount:  EntryCount,
		entrySize:   EntrySize,
		tableCRC:    tableCRC,
	}

	primary := base
	primary.self, primary.alt, primary.tableLBA = primaryHeaderLBA, backupHeaderLBA, primaryArrayLBA

	backup := base
	backup.self, backup.alt, backup.tableLBA = backupHeaderLBA, primaryHeaderLBA, backupArrayLBA

	if _, err := w.WriteAt(primary.toBytes(), int64(primaryHeaderLBA*sectorSize)); err != nil {
		return fmt.Errorf("writing primary GPT header: %w", err)
	}
	if _, err := w.WriteAt(backup.toBytes(), int64(backupHeaderLBA*sectorSize)); err != nil {
		return fmt.Errorf("writing backup GPT header: %w", err)
	}
	return nil
}
