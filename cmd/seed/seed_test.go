package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campusmarket/internal/db"
	"campusmarket/internal/repository"
)

func newTestSeeder(t *testing.T) *seeder {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, false, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &seeder{
		users:    repository.NewUserRepository(gormDB),
		listings: repository.NewListingRepository(gormDB),
		accounts: repository.NewAccountInfoRepository(gormDB),
		log:      zap.NewNop(),
	}
}

func TestSeed_DemoDataIsIdempotent(t *testing.T) {
	s := newTestSeeder(t)
	ctx := context.Background()

	data, err := loadSeed(ctx, "")
	require.NoError(t, err)

	first, err := s.seed(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, len(data.Users)+len(data.Listings)+len(data.Accounts), first.created)
	assert.Zero(t, first.skipped)

	second, err := s.seed(ctx, data)
	require.NoError(t, err)
	assert.Zero(t, second.created)
	assert.Equal(t, len(data.Listings)+len(data.Accounts), second.updated)
	assert.Equal(t, len(data.Users), second.skipped)

	listings, err := s.listings.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listings, len(data.Listings))

	count, err := s.accounts.CountByEmail(ctx, "sammy@ucsc.edu")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSeed_InvalidRowsAreSkipped(t *testing.T) {
	s := newTestSeeder(t)
	ctx := context.Background()

	res, err := s.seed(ctx, &SeedData{
		Listings: []SeedListing{
			{Name: "Too cheap", Condition: "New", Category: "Other", Price: 0, Creator: "a@ucsc.edu"},
			{Name: "Fine", Condition: "New", Category: "Other", Price: 1, Creator: "a@ucsc.edu"},
		},
		Accounts: []SeedAccountInfo{
			{Email: "a@ucsc.edu", Payment: "PayPal", College: "Other"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.created)
	assert.Equal(t, 2, res.skipped)
}

func TestLoadSeed_Sources(t *testing.T) {
	doc := SeedData{Listings: []SeedListing{{Name: "Kettle", Condition: "New", Category: "Dorm Gear", Price: 9, Creator: "k@ucsc.edu"}}}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	fromFile, err := loadSeed(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, doc, *fromFile)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seed.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	fromURL, err := loadSeed(context.Background(), srv.URL+"/seed.json")
	require.NoError(t, err)
	assert.Equal(t, doc, *fromURL)

	_, err = loadSeed(context.Background(), srv.URL+"/missing.json")
	assert.ErrorContains(t, err, "404")
}
