package input

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `{"objects": {}, "graph": {"edges": {}}}`

func TestWriteReadRoundTrip(t *testing.T) {
	for _, name := range []string{"model.json", "model.json.zst", "model.json.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Write(path, []byte(sample), nil); err != nil {
				t.Fatalf("write: %v", err)
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read raw: %v", err)
			}
			if Compressed(name) == bytes.Equal(raw, []byte(sample)) {
				t.Fatalf("unexpected on-disk encoding for %s", name)
			}

			got, err := Read(path, nil)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != sample {
				t.Fatalf("expected %q, got %q", sample, got)
			}
		})
	}
}

func TestReadStdin(t *testing.T) {
	var compressed bytes.Buffer
	if err := Encode(&compressed, []byte(sample), "x.zst"); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Read(Stdin, &compressed)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != sample {
		t.Fatalf("expected %q, got %q", sample, got)
	}

	got, err = Read(Stdin, strings.NewReader("[Plan(agent=planner)]"))
	if err != nil {
		t.Fatalf("read plain: %v", err)
	}
	if string(got) != "[Plan(agent=planner)]" {
		t.Fatalf("unexpected plain read %q", got)
	}
}

func TestReadShortInput(t *testing.T) {
	got, err := Decode(strings.NewReader("["))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != "[" {
		t.Fatalf("expected %q, got %q", "[", got)
	}
}

func TestWriteStdout(t *testing.T) {
	var out bytes.Buffer
	if err := Write(Stdin, []byte(sample), &out); err != nil {
		t.Fatalf("write: %v", err)
	}
	if out.String() != sample {
		t.Fatalf("unexpected stdout %q", out.String())
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Fatalf("expected error")
	}
}
