// Package indexfetch resolves an index URL (local path or remote URL) to
// index JSON bytes, caching remote fetches under a TTL the way
// downloader/network/client.go fetches files: a plain http.Client with an
// explicit timeout and a manual status-code check, no retry middleware.
package indexfetch

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cjdkgo/internal/cache"
	"cjdkgo/internal/index"
	"cjdkgo/internal/logging"
)

// Fetcher resolves an index URL to its JSON bytes, caching remote results
// under cacheDir/v0/index/<sha1(url)>/.
type Fetcher struct {
	CacheDir   string
	TTL        time.Duration
	HTTPClient *http.Client
}

// New returns a Fetcher with a 60s HTTP timeout, matching the teacher's
// explicit-timeout-no-retry network client shape.
func New(cacheDir string, ttl time.Duration) *Fetcher {
	return &Fetcher{
		CacheDir:   cacheDir,
		TTL:        ttl,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func isLocalPath(indexURL string) bool {
	u, err := url.Parse(indexURL)
	if err != nil {
		return true
	}
	return u.Scheme == "" || u.Scheme == "file"
}

func urlHash(indexURL string) string {
	sum := sha1.Sum([]byte(indexURL))
	return hex.EncodeToString(sum[:])
}

// VendorMetadataPath returns the on-disk path of the vendor-shape
// bookkeeping keystore for indexURL under cacheDir, letting callers outside
// this package (the façade's loadIndex) check it without reaching into the
// cache layout directly.
func VendorMetadataPath(cacheDir, indexURL string) string {
	dir := filepath.Join(cache.NewLayout(cacheDir).IndexRoot(), urlHash(indexURL))
	return filepath.Join(dir, "vendors.jks")
}

// Fetch returns the index JSON bytes for indexURL. A local path is read
// directly with no caching. A remote URL is served from the on-disk cache
// if it is fresher than TTL; a TTL of zero forces a refetch.
func (f *Fetcher) Fetch(indexURL string) ([]byte, error) {
	if isLocalPath(indexURL) {
		path := indexURL
		if u, err := url.Parse(indexURL); err == nil && u.Scheme == "file" {
			path = u.Path
		}
		logging.LogDebug("reading local index from %s", path)
		return os.ReadFile(path)
	}

	dir := filepath.Join(cache.NewLayout(f.CacheDir).IndexRoot(), urlHash(indexURL))
	indexPath := filepath.Join(dir, "index.json")
	fetchedAtPath := filepath.Join(dir, "fetched-at")

	if f.TTL > 0 {
		if data, fresh := f.readIfFresh(indexPath, fetchedAtPath); fresh {
			logging.LogDebug("using cached index at %s (within ttl)", indexPath)
			return data, nil
		}
	}

	lock, err := cache.AcquireLock(dir + ".lock")
	if err != nil {
		return nil, fmt.Errorf("failed to lock index cache: %w", err)
	}
	defer lock.Release()

	// Re-check under the lock: another process may have refreshed the
	// cache while this one waited.
	if f.TTL > 0 {
		if data, fresh := f.readIfFresh(indexPath, fetchedAtPath); fresh {
			logging.LogDebug("using cached index at %s (within ttl)", indexPath)
			return data, nil
		}
	}

	logging.LogInfo("📡 fetching index from %s", indexURL)
	data, err := f.download(indexURL)
	if err != nil {
		// Fall back to a stale cache entry rather than failing outright,
		// if one exists.
		if cached, err2 := os.ReadFile(indexPath); err2 == nil {
			logging.LogError("index fetch failed, using stale cache: %v", err)
			return cached, nil
		}
		return nil, err
	}

	if err := writeAtomic(dir, indexPath, data); err != nil {
		logging.LogError("failed to persist fetched index: %v", err)
	}
	if err := os.WriteFile(fetchedAtPath, []byte(strconv.FormatInt(time.Now().Unix(), 10)), 0644); err != nil {
		logging.LogError("failed to write fetched-at marker: %v", err)
	}
	updateVendorMetadata(dir, data)
	return data, nil
}

// updateVendorMetadata refreshes vendors.jks from freshly-fetched index
// bytes. Parse failures or keystore errors are logged, never surfaced: the
// JSON index remains authoritative regardless of this bookkeeping's state.
func updateVendorMetadata(dir string, data []byte) {
	idx, err := index.Build(data, nil)
	if err != nil {
		logging.LogDebug("skipping vendors.jks update, index did not parse: %v", err)
		return
	}
	cache.SaveVendorMetadata(filepath.Join(dir, "vendors.jks"), idx.AllVendors())
}

func (f *Fetcher) readIfFresh(indexPath, fetchedAtPath string) ([]byte, bool) {
	raw, err := os.ReadFile(fetchedAtPath)
	if err != nil {
		return nil, false
	}
	sec, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return nil, false
	}
	age := time.Duration(time.Now().Unix()-sec) * time.Second
	if age > f.TTL {
		return nil, false
	}
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (f *Fetcher) download(indexURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned non-OK status: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// writeAtomic writes data to finalPath via a temp file in the same
// directory, fsynced and renamed into place so a concurrent reader never
// observes a partial index.
func writeAtomic(dir, finalPath string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "index-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish index file: %w", err)
	}
	return nil
}
