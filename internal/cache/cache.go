// Package cache stores panel catalog listings on disk so that browsing does not
// refetch thousands of entries on every command.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xtplay/xtplay/filesystem"
	"github.com/xtplay/xtplay/log"
	"github.com/xtplay/xtplay/where"
)

// TTL is how long a listing stays fresh.
const TTL = 12 * time.Hour

func dir() string {
	d := filepath.Join(where.Cache(), "catalog")
	_ = filesystem.API().MkdirAll(d, os.ModePerm)
	return d
}

// Key derives a file-safe identifier from its parts.
func Key(parts ...string) string {
	normalized := strings.ToLower(strings.Join(parts, "\x00"))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Read decodes the entry under key into target. It reports false when the
// entry is missing, stale or unreadable.
func Read(key string, target any) bool {
	path := filepath.Join(dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	f, err := filesystem.API().Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(target); err != nil {
		log.Warnf("cache: dropping unreadable entry %s: %s", key, err)
		return false
	}
	return true
}

// Write stores data under key, replacing the previous entry atomically.
func Write(key string, data any) error {
	path := filepath.Join(dir(), key)
	tmp := path + ".tmp"

	f, err := filesystem.API().Create(tmp)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return filesystem.API().Rename(tmp, path)
}

// Purge removes every entry and reports how many bytes were freed.
func Purge() (int64, error) {
	var freed int64
	d := dir()
	err := filesystem.API().Walk(d, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		freed += info.Size()
		return filesystem.API().Remove(path)
	})
	return freed, err
}

// CollectGarbage removes stale entries.
func CollectGarbage() {
	d := dir()
	_ = filesystem.API().Walk(d, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > TTL {
			_ = filesystem.API().Remove(path)
		}
		return nil
	})
}
