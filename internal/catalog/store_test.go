// internal/catalog/store_test.go
package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen-workers/internal/common/cache"
	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/errors"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/models"
)

func testCatalogConfig(filePath string) config.CatalogConfig {
	return config.CatalogConfig{
		Table:        "site_templates",
		FilePath:     filePath,
		CacheTTLSecs: 60,
	}
}

func definitionJSON(t *testing.T, tpl models.TemplateDefinition) []byte {
	t.Helper()
	raw, err := json.Marshal(tpl)
	require.NoError(t, err)
	return raw
}

func TestLoadFromDatabaseInPositionOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	first := definitionJSON(t, models.TemplateDefinition{ID: "trade-classic"})
	second := definitionJSON(t, models.TemplateDefinition{ID: "modern-minimal"})
	mock.ExpectQuery("SELECT definition FROM site_templates ORDER BY position ASC").
		WillReturnRows(sqlmock.NewRows([]string{"definition"}).AddRow(first).AddRow(second))

	store := NewStore(db, nil, testCatalogConfig(""), logger.NewTestLogger())

	templates, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "trade-classic", templates[0].ID)
	assert.Equal(t, "modern-minimal", templates[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPopulatesAndServesCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	definition := definitionJSON(t, models.TemplateDefinition{ID: "trade-classic"})
	mock.ExpectQuery("SELECT definition FROM site_templates").
		WillReturnRows(sqlmock.NewRows([]string{"definition"}).AddRow(definition))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(db, cache.NewRedis(client), testCatalogConfig(""), logger.NewTestLogger())

	ctx := context.Background()
	templates, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)

	// The second load is served from Redis: the single database expectation
	// above would fail otherwise.
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, templates, again)
	assert.NoError(t, mock.ExpectationsWereMet())

	// After expiry the store falls through to the file (no second database
	// expectation), which does not exist here.
	mr.FastForward(2 * time.Minute)
	_, err = store.Load(ctx)
	require.Error(t, err)
}

func TestLoadFallsBackToFileWhenDatabaseFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT definition FROM site_templates").
		WillReturnError(assert.AnError)

	path := writeCatalogFile(t, `
templates:
  - id: fallback-template
    name: Fallback
    industries:
      excluded: [landscaping]
`)
	store := NewStore(db, nil, testCatalogConfig(path), logger.NewTestLogger())

	templates, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "fallback-template", templates[0].ID)
	assert.Equal(t, []string{"landscaping"}, templates[0].Industries.Excluded)
}

func TestLoadFromFileOnly(t *testing.T) {
	path := writeCatalogFile(t, `
templates:
  - id: alpha
    name: Alpha
    requirements:
      min_services: 3
    sections:
      - type: hero
        variants:
          - id: hero-image
            requirements:
              require_hero: true
  - id: beta
    name: Beta
`)
	store := NewStore(nil, nil, testCatalogConfig(path), logger.NewTestLogger())

	templates, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "alpha", templates[0].ID)
	assert.Equal(t, 3, templates[0].Requirements.MinServices)
	require.Len(t, templates[0].Sections, 1)
	assert.True(t, templates[0].Sections[0].Variants[0].Requirements.RequireHero)
}

func TestLoadErrorWhenNothingAvailable(t *testing.T) {
	store := NewStore(nil, nil, testCatalogConfig("/nonexistent/templates.yaml"), logger.NewTestLogger())

	_, err := store.Load(context.Background())
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCatalogLoadFailed, stdErr.Code)
}

func TestInvalidateDropsCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	path := writeCatalogFile(t, "templates:\n  - id: alpha\n")
	store := NewStore(nil, cache.NewRedis(client), testCatalogConfig(path), logger.NewTestLogger())

	ctx := context.Background()
	_, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(cacheKey))

	store.Invalidate(ctx)
	assert.False(t, mr.Exists(cacheKey))
}

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
