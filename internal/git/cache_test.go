package git

import (
	"os"
	"path/filepath"
	"testing"
)

// useTempCacheDir points the listing cache at a fresh directory.
func useTempCacheDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig := CacheDir
	CacheDir = func() string { return dir }
	t.Cleanup(func() { CacheDir = orig })
	return dir
}

func TestCacheOperations(t *testing.T) {
	useTempCacheDir(t)
	root := "/home/user/project"

	local := []LocalBranch{
		{Name: "dev", CommitSHA: "1111111", Upstream: &Upstream{Name: "origin/dev", Relationship: "ahead 2"}, CommitMessage: "Dev"},
		{Name: "main", IsCurrent: true, CommitSHA: "a1b2c3d", Upstream: &Upstream{Name: "origin/main"}, CommitMessage: "Initial commit"},
	}
	remote := []RemoteBranch{
		{Name: "origin/HEAD", Ref: SymbolicRef{Target: "origin/main"}},
		{Name: "origin/main", Ref: CommitRef{SHA: "a1b2c3d", Message: "Initial commit"}},
	}

	if cache := LoadCache(root); cache != nil {
		t.Fatal("LoadCache should return nil before anything was saved")
	}

	if err := SaveLocal(root, local); err != nil {
		t.Fatalf("SaveLocal failed: %v", err)
	}
	if err := SaveRemote(root, remote); err != nil {
		t.Fatalf("SaveRemote failed: %v", err)
	}

	cache := LoadCache(root)
	if cache == nil {
		t.Fatal("LoadCache returned nil")
	}
	if cache.RepoRoot != root {
		t.Errorf("Cache RepoRoot = %q, want %q", cache.RepoRoot, root)
	}

	// Saving the remote listing must not drop the local one.
	gotLocal, err := cache.LocalBranches()
	if err != nil {
		t.Fatalf("LocalBranches: %v", err)
	}
	if len(gotLocal) != 2 || !gotLocal[1].IsCurrent || gotLocal[0].Upstream.Relationship != "ahead 2" {
		t.Errorf("cached local listing = %+v", gotLocal)
	}

	gotRemote, err := cache.RemoteBranches()
	if err != nil {
		t.Fatalf("RemoteBranches: %v", err)
	}
	if len(gotRemote) != 2 {
		t.Fatalf("cached remote listing has %d entries, want 2", len(gotRemote))
	}
	if ref, ok := gotRemote[0].Ref.(SymbolicRef); !ok || ref.Target != "origin/main" {
		t.Errorf("cached remote[0] = %+v", gotRemote[0])
	}
}

func TestCacheSeparatesRepos(t *testing.T) {
	useTempCacheDir(t)

	a, b := "/work/a/project", "/work/b/project"
	if err := SaveLocal(a, []LocalBranch{{Name: "only-in-a", CommitSHA: "abc1234"}}); err != nil {
		t.Fatalf("SaveLocal failed: %v", err)
	}
	if cache := LoadCache(b); cache != nil {
		t.Errorf("repo %s must not see the cache of %s", b, a)
	}
}

func TestCorruptCacheIsRejected(t *testing.T) {
	dir := useTempCacheDir(t)
	root := "/home/user/project"

	if err := SaveLocal(root, []LocalBranch{{Name: "main", CommitSHA: "abc1234"}}); err != nil {
		t.Fatalf("SaveLocal failed: %v", err)
	}

	// A hand-edited listing line fails the same parser a live listing goes through.
	path := getCachePath(root)
	if filepath.Dir(path) != dir {
		t.Fatalf("cache path %s not under %s", path, dir)
	}
	data := []byte(`{"repo_root":"/home/user/project","local":["  main abc1234","  broken zzz"]}`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cache := LoadCache(root)
	if cache == nil {
		t.Fatal("LoadCache returned nil")
	}
	if branches, err := cache.LocalBranches(); err == nil {
		t.Errorf("expected a parse error, got %+v", branches)
	}

	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if LoadCache(root) != nil {
		t.Error("LoadCache should return nil for an unreadable cache")
	}
}
