package img

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/gosuri/uilive"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
)

type countingWriter struct {
	w     io.Writer
	count int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.count += int64(n)
	return n, err
}

// compressionExtension returns the file extension for a given algorithm.
func compressionExtension(algorithm string) (string, error) {
	switch algorithm {
	case "gzip":
		return ".gz", nil
	case "zlib":
		return ".zlib", nil
	case "bzip2":
		return ".bz2", nil
	case "snappy":
		return ".snappy", nil
	case "s2":
		return ".s2", nil
	case "zstd":
		return ".zst", nil
	case "zip":
		return ".zip", nil
	default:
		return "", fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// newCompressionWriter creates a compression writer for the algorithm.
// Returns the writer and a zip writer when one has to be closed separately.
func newCompressionWriter(algorithm string, output io.Writer) (io.Writer, *zip.Writer, error) {
	switch algorithm {
	case "gzip":
		return gzip.NewWriter(output), nil, nil
	case "zlib":
		return zlib.NewWriter(output), nil, nil
	case "bzip2":
		writer, err := bzip2.NewWriter(output, &bzip2.WriterConfig{})
		return writer, nil, err
	case "snappy":
		return snappy.NewBufferedWriter(output), nil, nil
	case "s2":
		return s2.NewWriter(output), nil, nil
	case "zstd":
		writer, err := zstd.NewWriter(output)
		return writer, nil, err
	case "zip":
		zipWriter := zip.NewWriter(output)
		zipFile, err := zipWriter.Create("compressedData")
		if err != nil {
			_ = zipWriter.Close()
			return nil, nil, fmt.Errorf("failed to create zip entry: %w", err)
		}
		return zipFile, zipWriter, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// Compress compresses a finished image at path into a sibling file with the
// algorithm's extension and returns the new path. The source is untouched.
func Compress(path, algorithm string) (string, error) {
	extension, err := compressionExtension(algorithm)
	if err != nil {
		return "", err
	}
	outPath := path + extension

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	var totalSize int64
	if stat, err := src.Stat(); err == nil {
		totalSize = stat.Size()
	}

	output, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		_ = output.Close()
	}()

	cw := &countingWriter{w: output}
	compressedWriter, zipWriter, err := newCompressionWriter(algorithm, cw)
	if err != nil {
		return "", fmt.Errorf("failed to create compression writer: %w", err)
	}

	start := time.Now()

	writer := uilive.New()
	writer.Start()
	defer writer.Stop()

	var (
		bytesRead  int64
		buf        = make([]byte, 16384)
		lastUpdate = time.Now()
	)

	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, wErr := compressedWriter.Write(buf[:n]); wErr != nil {
				return "", fmt.Errorf("failed to write compressed stream: %w", wErr)
			}
			bytesRead += int64(n)

			if time.Since(lastUpdate) >= time.Second {
				reportProgress(writer, start, bytesRead, cw.count, totalSize)
				lastUpdate = time.Now()
			}
		}
		if err == io.EOF {
			reportProgress(writer, start, bytesRead, cw.count, totalSize)
			break
		}
		if err != nil {
			return "", fmt.Errorf("error reading image: %w", err)
		}
	}

	if zipWriter != nil {
		if err := zipWriter.Close(); err != nil {
			return "", fmt.Errorf("failed to close zip writer: %w", err)
		}
	} else if wc, ok := compressedWriter.(io.WriteCloser); ok {
		if err := wc.Close(); err != nil {
			return "", fmt.Errorf("failed to close compression writer: %w", err)
		}
	}

	ratio := "N/A"
	if cw.count > 0 {
		ratio = fmt.Sprintf("%.2f:1", float64(bytesRead)/float64(cw.count))
	}
	logrus.WithFields(logrus.Fields{
		"image":   outPath,
		"written": formatBytes(cw.count),
		"ratio":   ratio,
		"elapsed": time.Since(start).Truncate(time.Second),
	}).Info("compressed image")

	return outPath, nil
}

// reportProgress refreshes the live byte counts and speeds.
func reportProgress(writer *uilive.Writer, start time.Time, bytesRead, bytesWritten, totalSize int64) {
	elapsed := time.Since(start)
	elapsedSeconds := elapsed.Seconds()
	if elapsedSeconds <= 0 {
		return
	}

	readBps := float64(bytesRead) / elapsedSeconds
	writeBps := float64(bytesWritten) / elapsedSeconds

	estimateStr := "N/A"
	if totalSize > 0 && bytesRead > 0 {
		remaining := float64(totalSize-bytesRead) / readBps
		if remaining < 0 {
			remaining = 0
		}
		estimateStr = time.Duration(remaining * float64(time.Second)).Truncate(time.Second).String()
	}

	_, _ = fmt.Fprintf(writer,
		"Byte Count: Read: %s (%d bytes), Written: %s (%d bytes)\n",
		formatBytes(bytesRead), bytesRead,
		formatBytes(bytesWritten), bytesWritten)
	_, _ = fmt.Fprintf(writer, "Elapsed Time: %s\n", elapsed.Truncate(time.Second))
	_, _ = fmt.Fprintf(writer, "Estimated Time: %s\n", estimateStr)
	_, _ = fmt.Fprintf(writer, "Read Speed: %s\n", formatSpeed(readBps))
	_, _ = fmt.Fprintf(writer, "Write Speed: %s\n", formatSpeed(writeBps))
	_ = writer.Flush()
}
