package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"codeabs/internal/abstract"
	"codeabs/internal/lang"
)

// Current schema version - increment when CachePayload or the unit layout changes
const cacheSchemaVersion uint16 = 1

// CacheKey identifies a unit by language and content.
type CacheKey [32]byte

// KeyFor hashes language, schema and source.
func KeyFor(k lang.Kind, src []byte) CacheKey {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00", k, cacheSchemaVersion)
	h.Write(src)
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

func (k CacheKey) String() string { return hex.EncodeToString(k[:]) }

// Cache хранит классифицированные единицы на диске, по одному файлу на ключ.
// Rendering is not cached: the stored unit re-renders under any category config.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is the msgpack body of one cache entry.
type CachePayload struct {
	Schema  uint16
	Lang    uint8
	Partial bool
	Unit    *abstract.Unit
}

// OpenCache creates dir when missing.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key CacheKey) string {
	hexKey := key.String()
	// двухсимвольный префикс, чтобы не складывать миллион файлов в один каталог
	return filepath.Join(c.dir, "units", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a unit to the cache.
func (c *Cache) Put(key CacheKey, unit *abstract.Unit, partial bool) error {
	if c == nil || unit == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	payload := CachePayload{Schema: cacheSchemaVersion, Lang: uint8(unit.Lang), Partial: partial, Unit: unit}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Get reads an entry. A missing entry or one written by another schema is a miss.
func (c *Cache) Get(key CacheKey) (*CachePayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload CachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if payload.Schema != cacheSchemaVersion || payload.Unit == nil {
		return nil, false, nil
	}
	payload.Unit.Lang = lang.Kind(payload.Lang)
	return &payload, true, nil
}

// DropAll removes every entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "units"))
}
