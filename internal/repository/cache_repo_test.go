package repository

import (
	"context"
	"testing"

	"attendance-tracker/internal/models"
)

func newCacheRepo(t *testing.T) *GormCacheRepository {
	t.Helper()
	repo, err := NewGormCacheRepository(newTestDB(t))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	return repo
}

func TestCachePutAllAndMatch(t *testing.T) {
	ctx := context.Background()
	repo := newCacheRepo(t)

	entries := []models.CacheEntry{
		{URL: "./", Status: 200, Header: `{"Content-Type":["text/html"]}`, Body: []byte("<html>")},
		{URL: "./app.js", Status: 200, Body: []byte("console.log(1)")},
	}
	if err := repo.PutAll(ctx, "v1", entries); err != nil {
		t.Fatalf("PutAll: %v", err)
	}

	has, err := repo.Has(ctx, "v1")
	if err != nil || !has {
		t.Fatalf("Has(v1) = %v, %v", has, err)
	}

	entry, err := repo.Match(ctx, "./app.js")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if entry == nil || string(entry.Body) != "console.log(1)" || entry.CacheName != "v1" {
		t.Errorf("unexpected entry %+v", entry)
	}

	missing, err := repo.Match(ctx, "./missing.js")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil, got %+v", missing)
	}
}

func TestCacheNamesAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newCacheRepo(t)

	for _, name := range []string{"v2", "v1"} {
		if err := repo.PutAll(ctx, name, []models.CacheEntry{{URL: "./", Status: 200}}); err != nil {
			t.Fatal(err)
		}
	}

	names, err := repo.Names(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "v1" || names[1] != "v2" {
		t.Errorf("unexpected names %v", names)
	}

	if err := repo.DeleteCache(ctx, "v1"); err != nil {
		t.Fatalf("DeleteCache: %v", err)
	}
	has, err := repo.Has(ctx, "v1")
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Error("v1 should be deleted")
	}

	entry, err := repo.Match(ctx, "./")
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil || entry.CacheName != "v2" {
		t.Errorf("expected entry from v2, got %+v", entry)
	}
}
