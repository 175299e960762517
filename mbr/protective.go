// Package mbr writes the protective Master Boot Record that tells legacy
// tools the disk is GPT-partitioned.
package mbr

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// trailerOffset is where the fixed trailer begins inside sector 0.
	trailerOffset = 438
	// trailerSize runs from the disk signature through the boot signature.
	trailerSize = 74

	// offsets within the trailer
	recordOffset  = 8  // first partition record, byte 446 of the sector
	bootSigOffset = 72 // boot signature, bytes 510-511 of the sector
)

// WriteProtective writes the fixed protective MBR trailer at byte 438 of w:
// a zero disk signature, one partition record of type 0xEE spanning from
// LBA 1 to the end-of-disk sentinel, three all-zero records and the 0xAA55
// boot signature. Nothing before byte 438 is touched.
func WriteProtective(w io.WriterAt) error {
	b := make([]byte, trailerSize)

	rec := b[recordOffset : recordOffset+16]
	// non-bootable, CHS start sentinel 0/2/0
	rec[1] = 0x00
	rec[2] = 0x02
	rec[3] = 0x00
	// type 0xEE "EFI GPT protective"
	rec[4] = 0xEE
	// CHS end sentinel 255/255/255
	rec[5] = 0xFF
	rec[6] = 0xFF
	rec[7] = 0xFF
	// starts right after this sector, length sentinel means rest of disk
	binary.LittleEndian.PutUint32(rec[8:12], 1)
	binary.LittleEndian.PutUint32(rec[12:16], 0xFFFFFFFF)

	b[bootSigOffset] = 0x55
	b[bootSigOffset+1] = 0xAA

	if _, err := w.WriteAt(b, trailerOffset); err != nil {
		return fmt.Errorf("writing protective MBR: %w", err)
	}
	return nil
}
