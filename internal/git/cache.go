package git

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// ListingCache holds the last successful branch listings of a repository.
// Records are stored as listing lines so loading goes through the parser.
type ListingCache struct {
	RepoRoot  string    `json:"repo_root"`
	Local     []string  `json:"local,omitempty"`
	Remote    []string  `json:"remote,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CacheDir is where listing caches live. Tests point it at a temp dir.
var CacheDir = func() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return filepath.Join(cacheDir, "twig")
}

// getCachePath returns the cache file path for the repo.
func getCachePath(repoRoot string) string {
	// Hash the full path so two checkouts with the same directory name do not collide.
	sum := sha1.Sum([]byte(repoRoot))
	key := filepath.Base(repoRoot) + "-" + hex.EncodeToString(sum[:6])
	return filepath.Join(CacheDir(), key+".json")
}

// LoadCache loads the cached listings for repoRoot.
// Returns nil if the cache doesn't exist, is unreadable or belongs to a
// different repository.
func LoadCache(repoRoot string) *ListingCache {
	path := getCachePath(repoRoot)

	fileLock := flock.New(path + ".lock")
	if err := fileLock.RLock(); err != nil {
		return nil
	}
	defer fileLock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var cache ListingCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil
	}
	if cache.RepoRoot != repoRoot {
		return nil
	}
	return &cache
}

// LocalBranches parses the cached local listing.
func (c *ListingCache) LocalBranches() ([]LocalBranch, error) {
	return ParseLocalListing([]byte(strings.Join(c.Local, "\n")))
}

// RemoteBranches parses the cached remote listing.
func (c *ListingCache) RemoteBranches() ([]RemoteBranch, error) {
	return ParseRemoteListing([]byte(strings.Join(c.Remote, "\n")))
}

// SaveLocal stores the local listing, keeping the cached remote one.
func SaveLocal(repoRoot string, branches []LocalBranch) error {
	lines := make([]string, len(branches))
	for i, b := range branches {
		lines[i] = FormatLocalLine(b)
	}
	return updateCache(repoRoot, func(c *ListingCache) { c.Local = lines })
}

// SaveRemote stores the remote listing, keeping the cached local one.
func SaveRemote(repoRoot string, branches []RemoteBranch) error {
	lines := make([]string, len(branches))
	for i, b := range branches {
		lines[i] = FormatRemoteLine(b)
	}
	return updateCache(repoRoot, func(c *ListingCache) { c.Remote = lines })
}

func updateCache(repoRoot string, mutate func(*ListingCache)) error {
	path := getCachePath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	// Acquire exclusive lock - blocks until lock is available
	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return err
	}
	defer fileLock.Unlock()

	cache := ListingCache{RepoRoot: repoRoot}
	if data, err := os.ReadFile(path); err == nil {
		var existing ListingCache
		if json.Unmarshal(data, &existing) == nil && existing.RepoRoot == repoRoot {
			cache = existing
		}
	}
	mutate(&cache)
	cache.UpdatedAt = time.Now()

	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}

	// Write atomically: write to temp file then rename
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
