package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-reasoner/pkg/pools"
)

// ErrVersion is returned when reading a snapshot written in another format version.
var ErrVersion = errors.New("unsupported snapshot version")

// streamMagic opens every snappy framed stream.
var streamMagic = []byte("\xff\x06\x00\x00sNaPpY")

// Options control how snapshots are encoded.
type Options struct {
	// Compress wraps the JSON in snappy framing
	Compress bool
	// Indent pretty-prints uncompressed output
	Indent bool
}

// Write encodes snap to w.
func Write(w io.Writer, snap *Snapshot, opts Options) error {
	buf := bytes.NewBuffer(pools.GetBytes(pools.SnapshotSize))
	defer func() { pools.PutBytes(buf.Bytes()) }()

	enc := json.NewEncoder(buf)
	if opts.Indent && !opts.Compress {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if !opts.Compress {
		_, err := w.Write(buf.Bytes())
		return err
	}

	sw := snappy.NewBufferedWriter(w)
	if _, err := sw.Write(buf.Bytes()); err != nil {
		sw.Close()
		return fmt.Errorf("failed to compress snapshot: %w", err)
	}
	return sw.Close()
}

// Read decodes a snapshot from r, detecting snappy framing.
func Read(r io.Reader) (*Snapshot, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if head, _ := br.Peek(len(streamMagic)); bytes.Equal(head, streamMagic) {
		src = snappy.NewReader(br)
	}

	var snap Snapshot
	if err := json.NewDecoder(src).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, snap.Version)
	}
	return &snap, nil
}

// WriteFile writes snap to path, creating parent directories.
func WriteFile(path string, snap *Snapshot, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if err := Write(f, snap, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a snapshot written by WriteFile.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()
	return Read(f)
}
