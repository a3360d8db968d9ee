package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/models"
	"github.com/wenwu/saas-platform/pricing-service/internal/storage"
)

// ErrTemplateNotFound tags a lookup miss, mapped to 404 at the handler layer.
var ErrTemplateNotFound = errors.New("template not found")

// Service serves quote templates. Templates are authored as
// template-*.json files on disk and mirrored into the store; the files are
// the source of truth, the store is the serving copy.
type Service struct {
	store storage.Store
	dir   string
	log   *zap.SugaredLogger
}

func NewService(store storage.Store, dataDir string, log *zap.SugaredLogger) *Service {
	return &Service{
		store: store,
		dir:   filepath.Join(dataDir, "templates"),
		log:   log,
	}
}

// All returns every stored template sorted by name, falling back to reading
// the template files directly when the store has none.
func (s *Service) All(ctx context.Context) ([]models.Template, error) {
	ids, err := s.store.GetIndex(ctx, storage.KeyTemplatesIndex)
	if err != nil {
		return nil, fmt.Errorf("read templates index: %w", err)
	}

	templates := make([]models.Template, 0, len(ids))
	for _, id := range ids {
		var tpl models.Template
		found, err := s.store.GetJSON(ctx, storage.TemplateKey(id), &tpl)
		if err != nil {
			return nil, err
		}
		if !found {
			_ = s.store.RemoveFromIndex(ctx, storage.KeyTemplatesIndex, id)
			continue
		}
		templates = append(templates, tpl)
	}

	if len(templates) == 0 {
		templates, err = s.loadFiles()
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

// Get loads one template by ID, trying the store first and the files second.
func (s *Service) Get(ctx context.Context, id string) (*models.Template, error) {
	var tpl models.Template
	found, err := s.store.GetJSON(ctx, storage.TemplateKey(id), &tpl)
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", id, err)
	}
	if found {
		return &tpl, nil
	}

	fromFiles, err := s.loadFiles()
	if err != nil {
		return nil, err
	}
	for i := range fromFiles {
		if fromFiles[i].ID == id {
			return &fromFiles[i], nil
		}
	}
	return nil, ErrTemplateNotFound
}

// SyncFromFiles reconciles the store against the template files: files are
// upserted, stored templates with no backing file are removed.
func (s *Service) SyncFromFiles(ctx context.Context) models.SyncResult {
	fromFiles, err := s.loadFiles()
	if err != nil {
		return models.SyncResult{Message: fmt.Sprintf("Error reading template files: %v", err)}
	}

	fileIDs := make(map[string]struct{}, len(fromFiles))
	for _, tpl := range fromFiles {
		fileIDs[tpl.ID] = struct{}{}
		if err := s.store.SetJSON(ctx, storage.TemplateKey(tpl.ID), tpl, 0); err != nil {
			return models.SyncResult{Message: fmt.Sprintf("Error storing template %s: %v", tpl.ID, err)}
		}
		if err := s.store.AddToIndex(ctx, storage.KeyTemplatesIndex, tpl.ID, storage.NowScore()); err != nil {
			return models.SyncResult{Message: fmt.Sprintf("Error indexing template %s: %v", tpl.ID, err)}
		}
	}

	stored, err := s.store.GetIndex(ctx, storage.KeyTemplatesIndex)
	if err != nil {
		return models.SyncResult{Message: fmt.Sprintf("Error reading templates index: %v", err)}
	}
	for _, id := range stored {
		if _, keep := fileIDs[id]; keep {
			continue
		}
		if _, err := s.store.Delete(ctx, storage.TemplateKey(id)); err != nil {
			s.log.Warnw("remove stale template", "id", id, "error", err)
		}
		_ = s.store.RemoveFromIndex(ctx, storage.KeyTemplatesIndex, id)
	}

	s.log.Infow("templates synced", "count", len(fromFiles))
	return models.SyncResult{
		Success: true,
		Message: fmt.Sprintf("Successfully synced %d templates", len(fromFiles)),
		Count:   len(fromFiles),
	}
}

// loadFiles reads every template-*.json under the templates directory. A
// missing directory means no templates, not an error. Files that fail to
// parse are skipped with a log line so one bad file can't hide the rest.
func (s *Service) loadFiles() ([]models.Template, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read templates dir: %w", err)
	}

	var templates []models.Template
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "template-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			s.log.Warnw("read template file", "file", name, "error", err)
			continue
		}
		var tpl models.Template
		if err := json.Unmarshal(raw, &tpl); err != nil {
			s.log.Warnw("parse template file", "file", name, "error", err)
			continue
		}
		if tpl.ID == "" {
			tpl.ID = strings.TrimSuffix(strings.TrimPrefix(name, "template-"), ".json")
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}
