package main

import (
	"fmt"
	"strconv"
	"strings"

	uuid "github.com/google/uuid"
	"github.com/spf13/cobra"

	"gptstamp/gpt"
	"gptstamp/img"
)

func stampCmd() *cobra.Command {
	var (
		out        string
		name       string
		size       string
		sectorSize uint64
		parts      []string
		compress   string
	)

	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Build a raw disk image with a protective MBR and GPT",
		Long: `Build a raw disk image with a protective MBR and GPT.

Partitions are given as name:start:end:type[:attrs] with start and end as
inclusive LBAs, type as a short alias (efi, bios, linux, swap, lvm, windows,
msreserved) or a full type GUID, and attrs as hex flags. Start LBAs are taken
as given; align them yourself if the consumer wants 1 MiB boundaries.`,
		Example: `  gptstamp stamp --name os --size 32MiB \
    --part efi:2048:22527:efi --part root:22528:45055:linux`,
		RunE: func(_ *cobra.Command, _ []string) error {
			sizeBytes, err := parseSize(size)
			if err != nil {
				return err
			}

			spec := img.Spec{Name: name, Size: sizeBytes, SectorSize: sectorSize}
			for _, raw := range parts {
				p, err := parsePart(raw)
				if err != nil {
					return err
				}
				spec.Parts = append(spec.Parts, p)
			}

			path, err := img.Build(out, spec)
			if err != nil {
				return err
			}
			if compress != "" {
				if _, err := img.Compress(path, compress); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", ".", "directory the image is written into")
	cmd.Flags().StringVar(&name, "name", "disk", "base name of the image file")
	cmd.Flags().StringVar(&size, "size", "", "disk size in bytes, or with a KiB/MiB/GiB suffix")
	cmd.Flags().Uint64Var(&sectorSize, "sector-size", 512, "logical sector size in bytes")
	cmd.Flags().StringArrayVar(&parts, "part", nil, "partition as name:start:end:type[:attrs], repeatable")
	cmd.Flags().StringVar(&compress, "compress", "", "also compress the image (gzip, zlib, bzip2, snappy, s2, zstd, zip)")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

// parsePart parses one --part value.
func parsePart(raw string) (gpt.Partition, error) {
	fields := strings.Split(raw, ":")
	if len(fields) < 4 || len(fields) > 5 {
		return gpt.Partition{}, fmt.Errorf("partition %q: want name:start:end:type[:attrs]", raw)
	}

	start, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return gpt.Partition{}, fmt.Errorf("partition %q: bad start LBA: %w", raw, err)
	}
	end, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return gpt.Partition{}, fmt.Errorf("partition %q: bad end LBA: %w", raw, err)
	}

	ptype, ok := gpt.TypeByName(fields[3])
	if !ok {
		if _, err := uuid.Parse(fields[3]); err != nil {
			return gpt.Partition{}, fmt.Errorf("partition %q: unknown type %q", raw, fields[3])
		}
		ptype = gpt.Type(strings.ToUpper(fields[3]))
	}

	var attrs uint64
	if len(fields) == 5 {
		attrs, err = strconv.ParseUint(fields[4], 16, 64)
		if err != nil {
			return gpt.Partition{}, fmt.Errorf("partition %q: bad attribute flags: %w", raw, err)
		}
	}

	return gpt.Partition{
		Name:       fields[0],
		Start:      start,
		End:        end,
		Attributes: attrs,
		Type:       ptype,
	}, nil
}

// parseSize accepts plain bytes or a KiB/MiB/GiB suffix.
func parseSize(s string) (uint64, error) {
	mult := uint64(1)
	num := s
	switch {
	case strings.HasSuffix(s, "GiB"):
		mult, num = 1<<30, strings.TrimSuffix(s, "GiB")
	case strings.HasSuffix(s, "MiB"):
		mult, num = 1<<20, strings.TrimSuffix(s, "MiB")
	case strings.HasSuffix(s, "KiB"):
		mult, num = 1<<10, strings.TrimSuffix(s, "KiB")
	}
	n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return n * mult, nil
}
