package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/opendb-tools/sqliteviz/sqlite"
)

// fileSource adapts an *os.File to the core's ByteSource contract.
type fileSource struct {
	f    *os.File
	size int64
}

func openSource(path string) (*fileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileSource{f: f, size: info.Size()}, nil
}

func (s *fileSource) Len() int64 { return s.size }

func (s *fileSource) ReadAt(offset int64, buf []byte) (int, error) {
	n, err := s.f.ReadAt(buf, offset)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (s *fileSource) Close() error { return s.f.Close() }

// decodeFile opens path and runs the full decode core over it.
func decodeFile(path string) (*sqlite.Model, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return sqlite.DecodeModel(src, filepath.Base(path))
}
