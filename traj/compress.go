/*
 * compress.go, part of gocoaster.
 *
 * Copyright 2024 The gocoaster authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package traj

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression returns the compression method that goes with the extension of name:
// "zstd" for .zst, "gzip" for .gz, "snappy" for .sz, and "" for anything else.
func Compression(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst":
		return "zstd"
	case ".gz":
		return "gzip"
	case ".sz":
		return "snappy"
	}
	return ""
}

type compressedFile struct {
	f *os.File
	c io.WriteCloser //the compressor, nil for plain files
	b *bufio.Writer
}

func (C *compressedFile) Write(p []byte) (int, error) {
	return C.b.Write(p)
}

// Close flushes all the data and closes the file. The first error found is returned.
func (C *compressedFile) Close() error {
	err := C.b.Flush()
	if C.c != nil {
		if err2 := C.c.Close(); err == nil {
			err = err2
		}
	}
	if err2 := C.f.Close(); err == nil {
		err = err2
	}
	return err
}

// Create creates (or truncates) the file name and returns a writer that compresses
// what is written to it, according to the extension of name (see Compression).
// Close must be called on the returned writer to flush the data.
func Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	C := &compressedFile{f: f}
	switch Compression(name) {
	case "zstd":
		C.c, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	case "gzip":
		C.c, err = gzip.NewWriterLevel(f, gzip.BestCompression)
	case "snappy":
		C.c = snappy.NewBufferedWriter(f)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	if C.c != nil {
		C.b = bufio.NewWriter(C.c)
	} else {
		C.b = bufio.NewWriter(f)
	}
	return C, nil
}

// *zstd.Decoder doesn't implement io.ReadCloser
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

type decompressedFile struct {
	io.Reader
	f *os.File
	d io.Closer //the decompressor, nil if not needed
}

func (D *decompressedFile) Close() error {
	var err error
	if D.d != nil {
		err = D.d.Close()
	}
	if err2 := D.f.Close(); err == nil {
		err = err2
	}
	return err
}

// Open opens the file name for reading, decompressing its contents according
// to the extension of name (see Compression).
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	D := &decompressedFile{f: f}
	in := bufio.NewReader(f)
	switch Compression(name) {
	case "zstd":
		var z *zstd.Decoder
		z, err = zstd.NewReader(in)
		if err == nil {
			D.Reader, D.d = z, zstdCloser{z}
		}
	case "gzip":
		var g *gzip.Reader
		g, err = gzip.NewReader(in)
		if err == nil {
			D.Reader, D.d = g, g
		}
	case "snappy":
		D.Reader = snappy.NewReader(in)
	default:
		D.Reader = in
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return D, nil
}
