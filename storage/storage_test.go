package storage

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBlobs(t *testing.T) {
	tests := []struct {
		name string
		open func(t *testing.T) Blobs
	}{
		{"memory", func(t *testing.T) Blobs { return NewMem() }},
		{"file", func(t *testing.T) Blobs {
			b, err := NewFileBlobs(filepath.Join(t.TempDir(), "data"))
			if err != nil {
				t.Fatal(err)
			}
			return b
		}},
		{"leveldb", func(t *testing.T) Blobs {
			b, err := NewLevelBlobs(filepath.Join(t.TempDir(), "db"))
			if err != nil {
				t.Fatal(err)
			}
			return b
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.open(t)
			defer b.Close()

			_, err := b.Get("missing")
			if !errors.Is(err, ErrNotFound) || !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
			}

			for _, value := range []string{`[]`, `[{"id":"1"}]`} {
				if err := b.Put("programs", []byte(value)); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
				got, err := b.Get("programs")
				if err != nil {
					t.Fatalf("Get() error = %v", err)
				}
				if diff := cmp.Diff(value, string(got)); diff != "" {
					t.Errorf("Get() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestMemIsolation(t *testing.T) {
	m := NewMem()
	value := []byte("abc")
	if err := m.Put("k", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'x'
	got, _ := m.Get("k")
	if string(got) != "abc" {
		t.Errorf("Get() = %q, want %q", got, "abc")
	}
}

func TestFileBlobsPersist(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBlobs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Put("points_pilot_programs", []byte("[]")); err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "points_pilot_programs.json"); b.Path("points_pilot_programs") != want {
		t.Errorf("Path() = %q, want %q", b.Path("points_pilot_programs"), want)
	}

	reopened, err := NewFileBlobs(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.Get("points_pilot_programs")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "[]" {
		t.Errorf("Get() = %q, want %q", got, "[]")
	}

	if err := b.Put("../escape", nil); err == nil {
		t.Error("Put(../escape) succeeded, want an error")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"file", File, false},
		{"LevelDB", LevelDB, false},
		{" memory ", Memory, false},
		{"redis", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
