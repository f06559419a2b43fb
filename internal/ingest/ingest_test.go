package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"planviz/internal/input"
	"planviz/internal/store"
	"planviz/internal/world/worldtest"
)

type mockStore struct {
	models       []store.ModelInput
	hashes       map[string]string
	removeCalls  [][]string
	ensureCalled bool
	failPut      string
}

func (m *mockStore) EnsureSchema(ctx context.Context) error {
	m.ensureCalled = true
	return nil
}

func (m *mockStore) PutModel(ctx context.Context, in store.ModelInput) (*store.Model, error) {
	if in.Name == m.failPut {
		return nil, errors.New("forced error")
	}
	m.models = append(m.models, in)
	return &store.Model{ID: "id-" + in.Name, Name: in.Name}, nil
}

func (m *mockStore) GetSourceHashes(ctx context.Context) (map[string]string, error) {
	if m.hashes == nil {
		return map[string]string{}, nil
	}
	return m.hashes, nil
}

func (m *mockStore) RemoveStaleModels(ctx context.Context, currentSourceFiles []string) (int64, error) {
	m.removeCalls = append(m.removeCalls, currentSourceFiles)
	return 1, nil
}

func writeSnapshots(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "runs", "old"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"p1.json":          worldtest.Snapshot,
		"runs/p2.json.zst": worldtest.Snapshot,
		"runs/old/p0.json": worldtest.Snapshot,
		"broken.json":      `{"objects": []}`,
		"notes.txt":        "not a snapshot",
	}
	for name, contents := range files {
		if err := input.Write(filepath.Join(root, filepath.FromSlash(name)), []byte(contents), nil); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return root
}

func names(models []store.ModelInput) map[string]store.ModelInput {
	out := make(map[string]store.ModelInput, len(models))
	for _, m := range models {
		out[m.Name] = m
	}
	return out
}

func TestRun_BasicIngestion(t *testing.T) {
	root := writeSnapshots(t)
	db := &mockStore{}

	result, err := Run(context.Background(), []string{root}, db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !db.ensureCalled {
		t.Fatalf("expected ensure schema")
	}
	if result.ModelsImported != 3 {
		t.Fatalf("expected 3 models imported, got %d", result.ModelsImported)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected broken.json to fail, got %v", result.Errors)
	}

	got := names(db.models)
	for _, name := range []string{"p1", "runs/p2", "runs/old/p0"} {
		if _, ok := got[name]; !ok {
			t.Fatalf("expected model %q, got %v", name, got)
		}
	}
	p2 := got["runs/p2"]
	if p2.Stats != (store.Stats{Nodes: 3, Edges: 2, Agents: 3}) {
		t.Fatalf("unexpected stats %+v", p2.Stats)
	}
	if string(p2.Body) != worldtest.Snapshot {
		t.Fatalf("expected decompressed body")
	}
	if p2.SourceHash == "" {
		t.Fatalf("expected source hash")
	}
}

func TestRun_Exclude(t *testing.T) {
	root := writeSnapshots(t)
	db := &mockStore{}

	result, err := Run(context.Background(), []string{root}, db, Options{Exclude: []string{filepath.Join(root, "runs", "old")}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.ModelsImported != 2 {
		t.Fatalf("expected 2 models imported, got %d", result.ModelsImported)
	}
}

func TestRun_IncrementalSkip(t *testing.T) {
	root := writeSnapshots(t)
	path := filepath.Join(root, "p1.json")
	hash, err := computeHash(path)
	if err != nil {
		t.Fatalf("compute hash: %v", err)
	}
	db := &mockStore{hashes: map[string]string{path: hash}}

	result, err := Run(context.Background(), []string{root}, db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.FilesSkipped != 1 {
		t.Fatalf("expected 1 file skipped, got %d", result.FilesSkipped)
	}
	if _, ok := names(db.models)["p1"]; ok {
		t.Fatalf("expected p1 to be skipped")
	}
}

func TestRun_FullIngestionOverridesHashes(t *testing.T) {
	root := writeSnapshots(t)
	path := filepath.Join(root, "p1.json")
	hash, err := computeHash(path)
	if err != nil {
		t.Fatalf("compute hash: %v", err)
	}
	db := &mockStore{hashes: map[string]string{path: hash}}

	result, err := Run(context.Background(), []string{root}, db, Options{Full: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.FilesSkipped != 0 {
		t.Fatalf("expected no skipped files, got %d", result.FilesSkipped)
	}
	if _, ok := names(db.models)["p1"]; !ok {
		t.Fatalf("expected p1 to be re-imported")
	}
}

func TestRun_ContinuesOnError(t *testing.T) {
	root := writeSnapshots(t)
	db := &mockStore{failPut: "p1"}

	result, err := Run(context.Background(), []string{root}, db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if result.ModelsImported != 2 {
		t.Fatalf("expected 2 models imported, got %d", result.ModelsImported)
	}
}

func TestRun_RemoveStaleModels(t *testing.T) {
	root := writeSnapshots(t)
	db := &mockStore{}

	result, err := Run(context.Background(), []string{root}, db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(db.removeCalls) != 1 || len(db.removeCalls[0]) != 4 {
		t.Fatalf("expected one remove call with 4 files, got %v", db.removeCalls)
	}
	if result.ModelsRemoved != 1 {
		t.Fatalf("expected 1 model removed, got %d", result.ModelsRemoved)
	}
}

func TestRun_CountsSkippedObjects(t *testing.T) {
	root := t.TempDir()
	raw := `{"objects": {"building": {"b35": {}, "b0-0": {}}}, "graph": {"edges": {}}}`
	if err := os.WriteFile(filepath.Join(root, "bad-ids.json"), []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	db := &mockStore{}

	result, err := Run(context.Background(), []string{root}, db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RecordsSkipped != 1 || result.ModelsImported != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestModelName(t *testing.T) {
	tests := map[string]string{
		"p1.json":          "p1",
		"runs/p2.JSON.ZST": "runs/p2",
		"a/b.json.gz":      "a/b",
	}
	for rel, want := range tests {
		root := filepath.FromSlash("/data")
		if got := modelName(root, filepath.Join(root, filepath.FromSlash(rel))); got != want {
			t.Errorf("modelName(%q) = %q, want %q", rel, got, want)
		}
	}
}
