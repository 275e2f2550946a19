// internal/catalog/store.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sitegen-workers/internal/common/cache"
	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/errors"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/models"
)

const cacheKey = "catalog:templates"

// Store loads the template catalog. Lookup order: cache, postgres, bundled
// YAML file. Catalog order is significant (it is the scoring tie-break), so
// the database read is ordered by position and the YAML file order is
// preserved as-is.
type Store struct {
	db       *sql.DB
	cache    cache.Cache
	table    string
	filePath string
	ttl      time.Duration
	log      logger.Logger
}

// NewStore builds a Store. db and c may be nil; the store then serves
// straight from the YAML file.
func NewStore(db *sql.DB, c cache.Cache, cfg config.CatalogConfig, log logger.Logger) *Store {
	return &Store{
		db:       db,
		cache:    c,
		table:    cfg.Table,
		filePath: cfg.FilePath,
		ttl:      time.Duration(cfg.CacheTTLSecs) * time.Second,
		log:      log,
	}
}

// Load returns the catalog in canonical order.
func (s *Store) Load(ctx context.Context) ([]models.TemplateDefinition, error) {
	if templates, ok := s.fromCache(ctx); ok {
		return templates, nil
	}

	if s.db != nil {
		templates, err := s.fromDatabase(ctx)
		if err == nil {
			s.toCache(ctx, templates)
			return templates, nil
		}
		s.log.Warn("catalog database read failed, falling back to file", map[string]interface{}{
			"error": err.Error(),
		})
	}

	templates, err := s.fromFile()
	if err != nil {
		return nil, errors.NewCatalogLoadFailedError(err)
	}
	s.toCache(ctx, templates)
	return templates, nil
}

// Invalidate drops the cached catalog, forcing the next Load to re-read.
func (s *Store) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		s.log.Warn("catalog cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Store) fromCache(ctx context.Context) ([]models.TemplateDefinition, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(ctx, cacheKey)
	if !ok {
		return nil, false
	}
	var templates []models.TemplateDefinition
	if err := json.Unmarshal([]byte(raw), &templates); err != nil {
		s.log.Warn("cached catalog is corrupt, evicting", map[string]interface{}{
			"error": err.Error(),
		})
		_ = s.cache.Delete(ctx, cacheKey)
		return nil, false
	}
	return templates, true
}

func (s *Store) toCache(ctx context.Context, templates []models.TemplateDefinition) {
	if s.cache == nil || len(templates) == 0 {
		return
	}
	raw, err := json.Marshal(templates)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, string(raw), s.ttl); err != nil {
		s.log.Warn("catalog cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Store) fromDatabase(ctx context.Context) ([]models.TemplateDefinition, error) {
	query := fmt.Sprintf("SELECT definition FROM %s ORDER BY position ASC", s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var templates []models.TemplateDefinition
	for rows.Next() {
		var definition []byte
		if err := rows.Scan(&definition); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		var tpl models.TemplateDefinition
		if err := json.Unmarshal(definition, &tpl); err != nil {
			return nil, fmt.Errorf("decoding template definition: %w", err)
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog rows: %w", err)
	}

	s.log.Info("catalog loaded from database", map[string]interface{}{
		"templates": len(templates),
	})
	return templates, nil
}

// catalogFile is the YAML shape of the bundled catalog.
type catalogFile struct {
	Templates []models.TemplateDefinition `yaml:"templates"`
}

func (s *Store) fromFile() ([]models.TemplateDefinition, error) {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}

	s.log.Info("catalog loaded from file", map[string]interface{}{
		"path":      s.filePath,
		"templates": len(file.Templates),
	})
	return file.Templates, nil
}
