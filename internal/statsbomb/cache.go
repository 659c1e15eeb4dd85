package statsbomb

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Cache stores provider documents on disk, zstd-compressed, keyed by their
// path relative to the base URL (e.g. "events/3788741.json").
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. The directory is created lazily.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, filepath.FromSlash(key)+".zst")
}

// Get returns the cached document for key. A missing entry is not an error.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	f, err := os.Open(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, false, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, false, fmt.Errorf("read cache %s: %w", key, err)
	}
	return data, true, nil
}

// Put compresses data into the cache under key. The entry is written to a
// temporary file first and renamed into place, so concurrent readers never
// observe a partial document.
func (c *Cache) Put(key string, data []byte) error {
	dst := c.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".partial-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("zstd: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		tmp.Close()
		return fmt.Errorf("write cache %s: %w", key, err)
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// Delete removes the entry for key. A missing entry is not an error.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
