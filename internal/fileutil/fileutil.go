// Package fileutil holds the small filesystem helpers shared by the publish
// and marker steps. Every helper takes an afero.Fs so callers can run against
// the real disk or an in-memory tree.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// Parent directories of dst are created. Removes dst on mismatch.
func CopyFileVerified(fsys afero.Fs, src, dst string) error {
	srcInfo, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create destination dir: %w", err)
	}
	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = fsys.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = fsys.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return nil
}

// HashFile returns the SHA256 digest of path.
func HashFile(fsys afero.Fs, path string) ([]byte, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// SameContent reports whether a and b both exist with identical size and digest.
// A missing b is reported as false without error.
func SameContent(fsys afero.Fs, a, b string) (bool, error) {
	infoA, err := fsys.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := fsys.Stat(b)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}
	hashA, err := HashFile(fsys, a)
	if err != nil {
		return false, err
	}
	hashB, err := HashFile(fsys, b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(hashA, hashB), nil
}

// Touch creates path if missing, otherwise bumps its modification time.
func Touch(fsys afero.Fs, path string) error {
	if _, err := fsys.Stat(path); err == nil {
		now := time.Now()
		return fsys.Chtimes(path, now, now)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
