package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errs "twitterhistory/pkg/errors"
	"twitterhistory/pkg/logger"
	"twitterhistory/pkg/models"
)

// RunFileName is the artifact name inside each run directory
const RunFileName = "data.json"

// Manager persists collection runs under a base data directory, one
// directory per run.
type Manager struct {
	baseDir string
	logger  logger.Logger
}

// NewManager creates a storage manager rooted at baseDir
func NewManager(baseDir string, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Manager{
		baseDir: baseDir,
		logger:  log,
	}, nil
}

// SaveRun writes a run as pretty-printed JSON under
// <base>/<subject>_<yyyy-mm-dd_HHMM>/data.json and returns the file path.
// The artifact is treated as read-only once written.
func (m *Manager) SaveRun(run *models.CollectionRun) (string, error) {
	dirName := fmt.Sprintf("%s_%s", sanitizeSubject(run.Subject), run.CollectedAt.Format("2006-01-02_1504"))
	dir := filepath.Join(m.baseDir, dirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	path := filepath.Join(dir, RunFileName)

	data, err := json.MarshalIndent(run, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run file: %w", err)
	}

	m.logger.InfoWithFields("saved collection run", map[string]interface{}{
		"subject": run.Subject,
		"records": len(run.Records),
		"path":    path,
	})

	return path, nil
}

// LoadRun reads a persisted run back. Missing, unreadable or schema-invalid
// artifacts fail with a store-read error, fatal to the invocation.
func LoadRun(path string) (*models.CollectionRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.StoreRead(path, err)
	}

	var run models.CollectionRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errs.StoreRead(path, err)
	}

	if run.Subject == "" || run.Records == nil {
		return nil, errs.StoreRead(path, fmt.Errorf("not a collection run artifact"))
	}

	return &run, nil
}

// SiblingPath swaps the store file's extension, placing derived artifacts
// next to the run they came from.
func SiblingPath(storePath string, ext string) string {
	return strings.TrimSuffix(storePath, filepath.Ext(storePath)) + ext
}

// sanitizeSubject makes a subject safe to use as a directory name
func sanitizeSubject(subject string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, subject)
}
