package snapshotstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FileStore keeps the snapshot in a single file. Paths ending in ".br" are
// brotli compressed.
type FileStore struct {
	Path string
}

func NewFileStore(path string) FileStore {
	return FileStore{Path: path}
}

func (s FileStore) compressed() bool {
	return strings.HasSuffix(s.Path, ".br")
}

func (s FileStore) Load(ctx context.Context) ([]byte, error) {
	_, span := tracer.Start(ctx, "FileStore:Load")
	defer span.End()
	span.SetAttributes(attribute.String("path", s.Path))

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read snapshot file")
		return nil, err
	}
	if !s.compressed() {
		return data, nil
	}

	data, err = io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decompress snapshot file")
		return nil, fmt.Errorf("decompress %s: %w", s.Path, err)
	}
	return data, nil
}

// Save replaces the file atomically so a crash never leaves a half written
// snapshot behind.
func (s FileStore) Save(ctx context.Context, data []byte) error {
	_, span := tracer.Start(ctx, "FileStore:Save")
	defer span.End()
	span.SetAttributes(attribute.String("path", s.Path))

	err := s.write(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write snapshot file")
		return err
	}
	return nil
}

func (s FileStore) write(data []byte) error {
	dir := filepath.Dir(s.Path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	var out io.Writer = tmp
	var compressor *brotli.Writer
	if s.compressed() {
		compressor = brotli.NewWriterLevel(tmp, brotli.DefaultCompression)
		out = compressor
	}
	_, err = out.Write(data)
	if err == nil && compressor != nil {
		err = compressor.Close()
	}
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}
