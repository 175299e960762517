package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gptstamp/gpt"
)

func TestParsePart(t *testing.T) {
	p, err := parsePart("efi:2048:22527:efi")
	require.NoError(t, err)
	assert.Equal(t, gpt.Partition{Name: "efi", Start: 2048, End: 22527, Type: gpt.EFISystemPartition}, p)

	p, err = parsePart("root:22528:45055:linux:4")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x4), p.Attributes)
	assert.Equal(t, gpt.LinuxFilesystem, p.Type)

	p, err = parsePart("data:100:200:ebd0a0a2-b9e5-4433-87c0-68b6b72699c7")
	require.NoError(t, err)
	assert.Equal(t, gpt.MicrosoftBasicData, p.Type)
}

func TestParsePartErrors(t *testing.T) {
	bad := []string{
		"efi:2048:22527",
		"efi:x:22527:efi",
		"efi:2048:y:efi",
		"efi:2048:22527:nosuchtype",
		"efi:2048:22527:efi:zz",
		"efi:1:2:3:4:5",
	}
	for _, raw := range bad {
		_, err := parsePart(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestParseSize(t *testing.T) {
	for raw, want := range map[string]uint64{
		"512":    512,
		"4KiB":   4096,
		"32MiB":  32 * 1024 * 1024,
		"2GiB":   2 * 1024 * 1024 * 1024,
		"123456": 123456,
	} {
		got, err := parseSize(raw)
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, want, got, "input %q", raw)
	}

	_, err := parseSize("many")
	assert.Error(t, err)
}
