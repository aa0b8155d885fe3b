// Package fileio holds the small filesystem helpers every nfch command builds on:
// JSON and text persistence, strict directory creation and gzip-aware reads.
package fileio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
	log "github.com/sirupsen/logrus"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

type gzipReadCloser struct {
	zr *pgzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.zr.Read(p)
}

func (g *gzipReadCloser) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// OpenInput opens path for reading, decompressing it when the name ends in .gz.
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, classify("open", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := pgzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open gzip %s: %w", path, err)
	}
	return &gzipReadCloser{zr: zr, f: f}, nil
}

// ReadJSON decodes the JSON document at path into v.
func ReadJSON(path string, v any) error {
	log.WithField("path", path).Debug("read json")
	in, err := OpenInput(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	if err := json.NewDecoder(in).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes v to path with two-space indentation, replacing any previous content.
func WriteJSON(v any, path string) error {
	log.WithField("path", path).Debug("write json")
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return classify("write", path, err)
	}
	return nil
}

// WriteText writes text to path, replacing any previous content.
func WriteText(text, path string) error {
	log.WithField("path", path).Debug("write text")
	if err := os.WriteFile(path, []byte(text), filePerm); err != nil {
		return classify("write", path, err)
	}
	return nil
}

// CreateDirectory creates a single directory. An existing path is always an error:
// callers rely on it to refuse scaffolding over a previous run.
func CreateDirectory(path string) error {
	log.WithField("path", path).Debug("create directory")
	if err := os.Mkdir(path, dirPerm); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("create %s: parent %s %w", path, filepath.Dir(path), ErrPermission)
		}
		return classify("create", path, err)
	}
	return nil
}

// CopyFile copies src to dest. Gzip-compressed sources are stored decompressed.
func CopyFile(src, dest string) error {
	log.WithFields(log.Fields{"src": src, "dest": dest}).Debug("copy file")
	in, err := OpenInput(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dest)
	if err != nil {
		return classify("create", dest, err)
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
