package gpt

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// GUIDString formats an on-disk mixed-endian GUID into the standard text form.
func GUIDString(b []byte) string {
	if len(b) < 16 {
		return ""
	}
	d1 := binary.LittleEndian.Uint32(b[0:4])
	d2 := binary.LittleEndian.Uint16(b[4:6])
	d3 := binary.LittleEndian.Uint16(b[6:8])
	return fmt.Sprintf("%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		d1, d2, d3,
		b[8], b[9],
		b[10], b[11], b[12], b[13], b[14], b[15],
	)
}

// VerifyHeaderCRC recomputes the CRC32 of a serialized GPT header with the
// self-checksum field zeroed and compares it against the recorded value.
func VerifyHeaderCRC(headerBytes []byte) error {
	if len(headerBytes) < HeaderSize {
		return fmt.Errorf("header too small for validation: %d bytes", len(headerBytes))
	}

	origCRC := binary.LittleEndian.Uint32(headerBytes[16:20])

	tmp := make([]byte, HeaderSize)
	copy(tmp, headerBytes[:HeaderSize])
	for i := 16; i < 20; i++ {
		tmp[i] = 0
	}

	calculatedCRC := crc32.ChecksumIEEE(tmp)
	if calculatedCRC != origCRC {
		return fmt.Errorf("GPT header CRC mismatch: calculated 0x%08X, expected 0x%08X", calculatedCRC, origCRC)
	}
	return nil
}

// VerifyEntryArrayCRC compares the CRC32 of serialized entry-array bytes
// against the value recorded in a header.
func VerifyEntryArrayCRC(entries []byte, expectedCRC uint32) error {
	calculatedCRC := crc32.ChecksumIEEE(entries)
	if calculatedCRC != expectedCRC {
		return fmt.Errorf("GPT entries CRC mismatch: calculated 0x%08X, expected 0x%08X", calculatedCRC, expectedCRC)
	}
	return nil
}
