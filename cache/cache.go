// Package cache keeps decoded source maps on disk, so that repeated
// invocations don't have to parse and decode the same JSON maps again.
package cache

import (
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// Cacheable is implemented by objects that can serialize themselves with an
// arbitrary encode function, typically gob.Encoder.Encode.
// *sourcemap.SourceMap implements it.
type Cacheable interface {
	Write(encode func(any) error) error
	Read(decode func(any) error) error
}

// Cache stores and loads cacheable objects by key.
type Cache interface {
	// Store saves c under the key. modTime is the modification time of the
	// file c was decoded from and is used to detect stale entries.
	Store(c Cacheable, key string, modTime time.Time) bool

	// Load fills c with the entry stored under the key, unless the entry was
	// stored for a file older than modTime.
	Load(c Cacheable, key string, modTime time.Time) bool
}

// cacheRoot is the directory all cached maps are stored in.
var cacheRoot = func() string {
	path, err := os.UserCacheDir()
	if err == nil {
		return filepath.Join(path, "gopherjs", "sourcemap_cache")
	}
	return filepath.Join(os.TempDir(), "gopherjs_sourcemap_cache")
}()

// cachedPath returns a location inside the cache for a given set of key
// strings.
func cachedPath(keys ...string) string {
	key := path.Join(keys...)
	if key == "" {
		panic("cachedPath() must not be used with an empty key")
	}
	sum := fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
	return filepath.Join(cacheRoot, sum[0:2], sum)
}

// Clear removes all cached maps of all library versions.
func Clear() error {
	return os.RemoveAll(cacheRoot)
}

var _ Cache = (*MapCache)(nil)

// MapCache stores decoded source maps between runs.
//
// The cache is non-durable: any store or load error is logged and leads to a
// cache miss. A nil *MapCache is valid and disables caching.
//
// Entries are gzip compressed, the gzip checksum serves as an integrity check.
// There is no size limit; use Clear or remove the directory to reclaim space.
type MapCache struct {
	// Version should be set to sourcemap.LibraryVersion. Entries written by
	// other versions are never loaded.
	Version string
}

func (mc MapCache) String() string {
	return fmt.Sprintf("%#v", mc)
}

// Store implements Cache.
func (mc *MapCache) Store(c Cacheable, key string, modTime time.Time) bool {
	if mc == nil {
		return false
	}

	start := time.Now()
	path := cachedPath(mc.entryKey(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		log.Warningf("Failed to create source map cache directory: %v", err)
		return false
	}
	// Entries are written to a temporary file and renamed into place, so
	// concurrent readers never see a partial entry.
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		log.Warningf("Failed to create temporary source map cache file: %v", err)
		return false
	}
	defer f.Close()
	if err := mc.serialize(c, modTime, f); err != nil {
		log.Warningf("Failed to write cached source map %q: %v", key, err)
		os.Remove(f.Name())
		return false
	}
	f.Close()
	if err := os.Rename(f.Name(), path); err != nil {
		log.Warningf("Failed to rename cached source map %q to %q: %v", key, path, err)
		os.Remove(f.Name())
		return false
	}
	dur := time.Since(start).Round(time.Millisecond)
	log.Infof("Stored source map %q as %q (%v).", key, path, dur)
	return true
}

// Load implements Cache.
func (mc *MapCache) Load(c Cacheable, key string, modTime time.Time) bool {
	if mc == nil {
		return false
	}

	start := time.Now()
	path := cachedPath(mc.entryKey(key))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Infof("No cached source map for %q at %q.", key, path)
		} else {
			log.Warningf("Failed to open cached source map for %q at %q: %v", key, path, err)
		}
		return false
	}
	defer f.Close()
	storedModTime, stale, err := mc.deserialize(c, modTime, f)
	if err != nil {
		log.Warningf("Failed to read cached source map for %q at %q: %v", key, path, err)
		return false
	}
	if stale {
		log.Infof("Found out-of-date source map for %q, cached for a file from %v.", key, storedModTime)
		return false
	}
	dur := time.Since(start).Round(time.Millisecond)
	log.Infof("Found cached source map for %q (%v).", key, dur)
	return true
}

func (mc *MapCache) serialize(c Cacheable, modTime time.Time, w io.Writer) (err error) {
	zw := gzip.NewWriter(w)
	defer func() {
		// Flushes the gzip stream, w stays open.
		if closeErr := zw.Close(); err == nil {
			err = closeErr
		}
	}()

	ge := gob.NewEncoder(zw)
	if err := ge.Encode(modTime); err != nil {
		return err
	}
	return c.Write(ge.Encode)
}

func (mc *MapCache) deserialize(c Cacheable, modTime time.Time, r io.Reader) (storedModTime time.Time, stale bool, err error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return storedModTime, false, err
	}
	defer func() {
		// Verifies the gzip checksum, r stays open.
		if closeErr := zr.Close(); err == nil {
			err = closeErr
		}
	}()

	gd := gob.NewDecoder(zr)
	if err := gd.Decode(&storedModTime); err != nil {
		return storedModTime, false, err
	}
	if modTime.After(storedModTime) {
		return storedModTime, true, nil
	}
	return storedModTime, false, c.Read(gd.Decode)
}

// entryKey returns the full cache key of an entry.
func (mc *MapCache) entryKey(key string) string {
	return path.Join("map", fmt.Sprintf("%q", mc.Version), key)
}
