package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dataExt = ".bin"
	metaExt = ".json"
)

// FileCache keeps artifacts as plain files under a directory. Every entry is
// a data file holding the raw bytes and a JSON sidecar with its expiration,
// so large images are never re-encoded on the way in or out.
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// entryMeta is the sidecar stored next to each data file.
type entryMeta struct {
	Key       string    `json:"key"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Dir returns the cache root.
func (c *FileCache) Dir() string {
	return c.dir
}

// Get returns the entry for key. Expired or inconsistent entries are removed
// and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	base := c.path(key)

	raw, err := os.ReadFile(base + metaExt)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var meta entryMeta
	if err := json.Unmarshal(raw, &meta); err != nil || meta.Key != key {
		c.remove(base)
		return nil, false, nil
	}
	if !meta.ExpiresAt.IsZero() && time.Now().After(meta.ExpiresAt) {
		c.remove(base)
		return nil, false, nil
	}

	data, err := os.ReadFile(base + dataExt)
	if err != nil || len(data) != meta.Size {
		c.remove(base)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores data under key. The data file is written before its sidecar so
// a reader never sees metadata for a partial file.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	base := c.path(key)
	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		return err
	}

	meta := entryMeta{Key: key, Size: len(data), CreatedAt: time.Now()}
	if ttl > 0 {
		meta.ExpiresAt = meta.CreatedAt.Add(ttl)
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	if err := writeAtomic(base+dataExt, data); err != nil {
		return err
	}
	return writeAtomic(base+metaExt, raw)
}

// Delete removes key.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	base := c.path(key)
	for _, ext := range []string{metaExt, dataExt} {
		if err := os.Remove(base + ext); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (c *FileCache) Clear() (int, error) {
	count := 0
	var dirs []string
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if path == c.dir {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if err := os.Remove(path); err == nil && strings.HasSuffix(path, metaExt) {
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i])
	}
	return count, nil
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// path maps key to an extension-less file path, fanned out over 256
// subdirectories by the first byte of its hash.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:])
}

func (c *FileCache) remove(base string) {
	_ = os.Remove(base + metaExt)
	_ = os.Remove(base + dataExt)
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Cache = (*FileCache)(nil)
