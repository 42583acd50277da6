package updater

import (
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cache := &VersionCache{
		LatestVersion:   "1.2.0",
		CurrentVersion:  "1.1.0",
		CheckedAt:       time.Now().Truncate(time.Second),
		UpdateAvailable: true,
	}
	if err := SaveCache(dir, cache); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	loaded, err := LoadCache(dir)
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadCache returned nil for existing cache")
	}
	if loaded.LatestVersion != cache.LatestVersion || !loaded.UpdateAvailable {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadCacheMissingIsNil(t *testing.T) {
	loaded, err := LoadCache(t.TempDir())
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if loaded != nil {
		t.Errorf("loaded = %+v, want nil on first run", loaded)
	}
}

func TestIsCacheStale(t *testing.T) {
	if !IsCacheStale(nil, DefaultCacheMaxAge) {
		t.Error("nil cache not stale")
	}

	fresh := &VersionCache{CheckedAt: time.Now()}
	if IsCacheStale(fresh, DefaultCacheMaxAge) {
		t.Error("fresh cache reported stale")
	}

	old := &VersionCache{CheckedAt: time.Now().Add(-25 * time.Hour)}
	if !IsCacheStale(old, DefaultCacheMaxAge) {
		t.Error("day-old cache not stale")
	}
}
