package ml

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gridiron/internal/metrics"
	"gridiron/pkg/errors"
	"gridiron/pkg/logger"
)

// Loader deserializes model artifacts and caches them in memory.
//
// Cache strategy: entries are keyed by artifact path plus file mtime. The
// training job never rewrites an artifact in place for a new model version
// (it writes a new file and rebinds), so a rebound market points at a new
// path or a new mtime. Either way the old entry falls out of the key space
// and a stale artifact can never be served. Old entries for abandoned paths
// are evicted lazily.
//
// Safe for concurrent use; loaded artifacts are shared read-only.
type Loader struct {
	mu    sync.RWMutex
	cache map[string]Artifact
	log   *logger.Logger
}

// NewLoader creates an empty artifact loader
func NewLoader() *Loader {
	return &Loader{
		cache: make(map[string]Artifact),
		log:   logger.Get().With("component", "artifact_loader"),
	}
}

// Load returns the artifact at path, from cache when the file is unchanged.
// Fails with errors.ErrArtifactMissing when the path does not resolve to a
// readable file.
func (l *Loader) Load(path string) (Artifact, error) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return nil, errors.Wrapf(errors.ErrArtifactMissing, "artifact at %s", path)
	}

	key := fmt.Sprintf("%s|%d", path, fi.ModTime().UnixNano())

	l.mu.RLock()
	artifact, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		metrics.RecordArtifactCache(true)
		return artifact, nil
	}

	metrics.RecordArtifactCache(false)
	artifact, err = l.open(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// Another request may have loaded the same key while we deserialized;
	// keep the first instance so all requests share one artifact
	if existing, ok := l.cache[key]; ok {
		return existing, nil
	}
	l.evictPath(path)
	l.cache[key] = artifact
	l.log.Debugf("Loaded artifact %s", key)
	return artifact, nil
}

// open deserializes by artifact format
func (l *Loader) open(path string) (Artifact, error) {
	if filepath.Ext(path) == ".onnx" {
		return LoadONNX(path, 0)
	}
	return OpenBundle(path)
}

// evictPath drops stale entries for older mtimes of the same path.
// Caller holds the write lock.
func (l *Loader) evictPath(path string) {
	prefix := path + "|"
	for k := range l.cache {
		if strings.HasPrefix(k, prefix) {
			delete(l.cache, k)
		}
	}
}

// Size returns the number of cached artifacts (for diagnostics)
func (l *Loader) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}
