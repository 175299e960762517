package gpt

import uuid "github.com/google/uuid"

// GUIDSource produces the disk and partition GUIDs stamped during a commit.
// Tests substitute a deterministic source to assert exact byte output.
type GUIDSource func() uuid.UUID

// RandomGUIDs is the default source, backed by the process-wide
// cryptographic generator.
func RandomGUIDs() uuid.UUID {
	return uuid.New()
}

// guidToBytes converts a GUID to its on-disk layout: the first three groups
// are stored little-endian, the last two big-endian.
func guidToBytes(g uuid.UUID) []byte {
	b := make([]byte, 16)
	copy(b, g[:])
	reverse(b[0:4])
	reverse(b[4:6])
	reverse(b[6:8])
	return b
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
