package img

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gptstamp/gpt"
)

func testSpec() Spec {
	return Spec{
		Name:       "test",
		Size:       32 * 1024 * 1024,
		SectorSize: 512,
		Parts: []gpt.Partition{
			{Name: "efi", Start: 2048, End: 22527, Type: gpt.EFISystemPartition},
			{Name: "root", Start: 22528, End: 45055, Type: gpt.LinuxFilesystem},
		},
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	path, err := Build(dir, testSpec())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test.img"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(32*1024*1024), info.Size())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte(0x55), b[510])
	assert.Equal(t, byte(0xAA), b[511])
	require.NoError(t, gpt.VerifyHeaderCRC(b[512:512+gpt.HeaderSize]))

	_, err = os.Stat(path + ".manifest")
	assert.NoError(t, err, "manifest written after a successful build")
}

func TestBuildCacheSkip(t *testing.T) {
	dir := t.TempDir()
	spec := testSpec()
	path, err := Build(dir, spec)
	require.NoError(t, err)

	// scribble a marker into the data area; a skipped rebuild leaves it
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte{0xCC}, 4*1024*1024)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Build(dir, spec)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte(0xCC), b[4*1024*1024], "unchanged spec must not rewrite the image")
}

func TestBuildRebuildOnChange(t *testing.T) {
	dir := t.TempDir()
	spec := testSpec()
	path, err := Build(dir, spec)
	require.NoError(t, err)

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte{0xCC}, 4*1024*1024)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	spec.Parts = spec.Parts[:1]
	_, err = Build(dir, spec)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), b[4*1024*1024], "changed spec must rebuild from scratch")
}

func TestBuildValidationError(t *testing.T) {
	dir := t.TempDir()
	spec := testSpec()
	spec.Parts = append(spec.Parts, gpt.Partition{Name: "bad", Start: 3000, End: 5000, Type: gpt.LinuxFilesystem})

	_, err := Build(dir, spec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gpt.ErrPartitionOverlap), "got %v", err)
}

func TestBuildDiskTooSmall(t *testing.T) {
	dir := t.TempDir()
	spec := testSpec()
	spec.Size = 1024 * 1024
	spec.Parts = nil

	_, err := Build(dir, spec)
	require.Error(t, err)
}

func TestCompress(t *testing.T) {
	dir := t.TempDir()
	path, err := Build(dir, testSpec())
	require.NoError(t, err)

	outPath, err := Compress(path, "gzip")
	require.NoError(t, err)
	assert.Equal(t, path+".gz", outPath)

	// round-trip the first sector and verify it matches the image
	zf, err := os.Open(outPath)
	require.NoError(t, err)
	defer zf.Close()
	zr, err := gzip.NewReader(zf)
	require.NoError(t, err)
	defer zr.Close()

	got := make([]byte, 512)
	_, err = io.ReadFull(zr, got)
	require.NoError(t, err)

	want, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want[:512], got)
}

func TestCompressUnknownAlgorithm(t *testing.T) {
	_, err := Compress("whatever.img", "lzma")
	assert.Error(t, err)
}
