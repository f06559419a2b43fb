// Package ingest imports a directory of world snapshots into a store.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"planviz/internal/input"
	"planviz/internal/store"
	"planviz/internal/world"
)

type Result struct {
	ModelsImported int
	ModelsRemoved  int
	FilesSkipped   int
	// RecordsSkipped counts objects left out of imported snapshots.
	RecordsSkipped int
	Errors         []error
}

type Options struct {
	Full    bool
	Exclude []string
	Logger  *slog.Logger
}

var snapshotExts = []string{".json", ".json.zst", ".json.zstd", ".json.gz"}

// Run imports every snapshot under roots whose content changed since the last import, then
// removes models whose source file is gone. A file that fails is recorded in Result.Errors and
// the rest are still imported.
func Run(ctx context.Context, roots []string, db Store, options Options) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var existingHashes map[string]string
	if !options.Full {
		var err error
		existingHashes, err = db.GetSourceHashes(ctx)
		if err != nil {
			return nil, fmt.Errorf("get source hashes: %w", err)
		}
	}

	result := &Result{}
	var files []string
	for _, root := range roots {
		found, err := walkSnapshots(root, options.Exclude)
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}

		for _, path := range found {
			files = append(files, path)

			hash, err := computeHash(path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("hashing %s: %w", path, err))
				continue
			}
			if existing, ok := existingHashes[path]; ok && existing == hash {
				result.FilesSkipped++
				continue
			}

			in, skipped, err := readSnapshot(path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", path, err))
				continue
			}
			for _, err := range skipped {
				logger.Warn("skipped object", "file", path, "err", err)
			}
			result.RecordsSkipped += len(skipped)

			in.Name = modelName(root, path)
			in.SourceFile = path
			in.SourceHash = hash
			if _, err := db.PutModel(ctx, in); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("storing %s: %w", path, err))
				continue
			}
			logger.Debug("imported model", "name", in.Name, "file", path)
			result.ModelsImported++
		}
	}

	removed, err := db.RemoveStaleModels(ctx, files)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("removing stale models: %w", err))
	}
	result.ModelsRemoved = int(removed)

	return result, nil
}

func readSnapshot(path string) (store.ModelInput, []error, error) {
	raw, err := input.Read(path, nil)
	if err != nil {
		return store.ModelInput{}, nil, err
	}
	m, err := world.Decode(raw)
	if err != nil {
		return store.ModelInput{}, nil, err
	}
	w := world.Parse(m)
	return store.ModelInput{
		Body:  raw,
		Stats: store.StatsOf(w),
	}, w.Errors, nil
}

// modelName is the snapshot path relative to its root, slash separated, without extension.
func modelName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	for _, ext := range snapshotExts {
		if trimmed, ok := strings.CutSuffix(strings.ToLower(rel), ext); ok {
			return rel[:len(trimmed)]
		}
	}
	return rel
}

func isSnapshot(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range snapshotExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func walkSnapshots(root string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	root = filepath.Clean(root)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && isExcluded(path, excluded) {
			return filepath.SkipDir
		}
		if d.IsDir() || !isSnapshot(d.Name()) || isExcluded(path, excluded) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func computeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
