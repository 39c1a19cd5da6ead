package geocache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/couchcryptid/nonprofit-etl/internal/domain"
)

// Cache maps geocoding query strings to coordinates. It is persisted as an
// indented JSON object whose values are [lat, lng] string pairs:
//
//	{
//	  "600 W Main St, Louisville, KY, USA": ["38.2570", "-85.7600"]
//	}
//
// A Cache is owned by a single run and is not safe for concurrent use.
type Cache struct {
	path    string
	entries map[string]domain.Coordinates
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]domain.Coordinates)}
}

// Load reads the cache file at path. It always returns a usable cache: a
// missing file yields an empty cache and no error, while an unreadable or
// corrupt file yields an empty cache and an error saying why it was ignored.
// In every case Persist writes back to path.
func Load(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]domain.Coordinates)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read geocode cache: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return c, fmt.Errorf("parse geocode cache: %w", err)
	}

	for query, value := range raw {
		if coords, ok := decodePair(value); ok {
			c.entries[query] = coords
		}
	}
	return c, nil
}

// decodePair reads a [lat, lng] entry whose elements may be strings or bare
// numbers. Anything else is reported as not ok and the entry is dropped.
func decodePair(value json.RawMessage) (domain.Coordinates, bool) {
	var pair []json.RawMessage
	if err := json.Unmarshal(value, &pair); err != nil || len(pair) != 2 {
		return domain.Coordinates{}, false
	}
	lat, ok := decodeCoordinate(pair[0])
	if !ok {
		return domain.Coordinates{}, false
	}
	lng, ok := decodeCoordinate(pair[1])
	if !ok {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lat: lat, Lng: lng}, true
}

// decodeCoordinate keeps numbers in their literal form, so 38.2500 is not
// shortened to 38.25.
func decodeCoordinate(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), n != ""
	}
	return "", false
}

// Lookup returns the coordinates stored for an exact query string.
func (c *Cache) Lookup(query string) (domain.Coordinates, bool) {
	coords, ok := c.entries[query]
	return coords, ok
}

// Store records coordinates for query, replacing any previous entry.
func (c *Cache) Store(query string, coords domain.Coordinates) {
	c.entries[query] = coords
}

// Len returns the number of cached queries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Persist saves the cache back to the file it was loaded from. Caches made
// with New have no file and Persist is a no-op.
func (c *Cache) Persist() error {
	if c.path == "" {
		return nil
	}
	return c.Save(c.path)
}

// Save writes the cache to path, replacing the file atomically.
func (c *Cache) Save(path string) error {
	raw := make(map[string][2]string, len(c.entries))
	for query, coords := range c.entries {
		raw[query] = [2]string{coords.Lat, coords.Lng}
	}

	payload, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode geocode cache: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write geocode cache: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write geocode cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write geocode cache: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write geocode cache: %w", err)
	}
	return nil
}
