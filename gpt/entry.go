package gpt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"

	uuid "github.com/google/uuid"
)

const (
	// EntrySize is the fixed size of one on-disk partition entry.
	EntrySize = 128
	// EntryCount is the fixed number of slots in the entry array.
	EntryCount = 128
	// nameUnits is the size of the entry name field in UTF-16 code units.
	nameUnits = 36
)

// ErrNameTooLong means a partition name does not fit the fixed name field.
var ErrNameTooLong = errors.New("partition name exceeds 36 UTF-16 code units")

// Entry is one on-disk partition entry. The GUID is assigned fresh for
// every commit and carries no relation to the logical partition.
type Entry struct {
	Type       Type
	GUID       uuid.UUID
	Start      uint64
	End        uint64
	Attributes uint64
	Name       [nameUnits]uint16
}

// encodeName converts a partition name into the fixed zero-padded UTF-16LE
// name field. Names that do not fit are rejected, never truncated.
func encodeName(name string) ([nameUnits]uint16, error) {
	var field [nameUnits]uint16
	units := utf16.Encode([]rune(name))
	if len(units) > nameUnits {
		return field, fmt.Errorf("%q needs %d code units: %w", name, len(units), ErrNameTooLong)
	}
	copy(field[:], units)
	return field, nil
}

// toBytes returns the 128 bytes for this entry, little-endian throughout,
// GUIDs in their on-disk mixed-endian order.
func (e Entry) toBytes() ([]byte, error) {
	b := make([]byte, EntrySize)

	typeGUID, err := uuid.Parse(string(e.Type))
	if err != nil {
		return nil, fmt.Errorf("unable to parse partition type GUID %q: %w", e.Type, err)
	}
	copy(b[0:16], guidToBytes(typeGUID))
	copy(b[16:32], guidToBytes(e.GUID))

	binary.LittleEndian.PutUint64(b[32:40], e.Start)
	binary.LittleEndian.PutUint64(b[40:48], e.End)
	binary.LittleEndian.PutUint64(b[48:56], e.Attributes)

	for i, u := range e.Name {
		binary.LittleEndian.PutUint16(b[56+i*2:58+i*2], u)
	}
	return b, nil
}
