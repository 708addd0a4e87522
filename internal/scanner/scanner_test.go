package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/artemshloyda/gallerycompress/internal/config"
)

func touch(t *testing.T, dir, name string, size int) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestScanner_Scan(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "c.png", 30)
	touch(t, dir, "a.JPG", 10)
	touch(t, dir, "b.jpeg", 20)
	touch(t, dir, "notes.txt", 5)
	touch(t, dir, "d.gif", 5)
	touch(t, dir, "noext", 5)
	if err := os.Mkdir(filepath.Join(dir, "sub.jpg"), 0755); err != nil {
		t.Fatal(err)
	}

	result, err := New(config.DefaultConfig()).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	files := result.Files

	want := []string{"a.JPG", "b.jpeg", "c.png"}
	if len(files) != len(want) {
		t.Fatalf("Scan() returned %d files, want %d: %+v", len(files), len(want), files)
	}

	for i, name := range want {
		if files[i].Name != name {
			t.Errorf("files[%d].Name = %q, want %q", i, files[i].Name, name)
		}
		if !filepath.IsAbs(files[i].Path) {
			t.Errorf("files[%d].Path = %q, want absolute path", i, files[i].Path)
		}
	}

	if files[0].Size != 10 || files[2].Size != 30 {
		t.Errorf("sizes = %d, %d, want 10, 30", files[0].Size, files[2].Size)
	}

	if len(result.Skipped) != 1 || result.Skipped[0].Name != "sub.jpg" {
		t.Errorf("Skipped = %+v, want sub.jpg", result.Skipped)
	}
}

func TestScanner_ScanSymlinks(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	touch(t, dir, "a.jpg", 10)
	touch(t, outside, "linked.png", 25)

	links := []struct{ target, name string }{
		{filepath.Join(outside, "linked.png"), "b.png"},
		{filepath.Join(outside, "missing.png"), "broken.jpg"},
		{outside, "dir.jpeg"},
	}
	for _, l := range links {
		if err := os.Symlink(l.target, filepath.Join(dir, l.name)); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
	}

	result, err := New(config.DefaultConfig()).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(result.Files) != 2 || result.Files[0].Name != "a.jpg" || result.Files[1].Name != "b.png" {
		t.Fatalf("Files = %+v, want a.jpg, b.png", result.Files)
	}
	if result.Files[1].Size != 25 {
		t.Errorf("b.png size = %d, want size of the link target 25", result.Files[1].Size)
	}

	tests := []struct {
		name   string
		reason string
	}{
		{"broken.jpg", "битая символическая ссылка"},
		{"dir.jpeg", "это директория"},
	}
	if len(result.Skipped) != len(tests) {
		t.Fatalf("Skipped = %+v, want %d entries", result.Skipped, len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := result.Skipped[i]
			if got.Name != tt.name || got.Reason != tt.reason {
				t.Errorf("Skipped[%d] = %+v, want %s (%s)", i, got, tt.name, tt.reason)
			}
		})
	}
}

func TestScanner_ScanErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr error
	}{
		{
			name: "missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "gallery")
			},
			wantErr: ErrDirectoryNotFound,
		},
		{
			name: "path is a file",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				touch(t, dir, "gallery", 1)
				return filepath.Join(dir, "gallery")
			},
			wantErr: ErrDirectoryNotFound,
		},
		{
			name: "empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: ErrEmptyGallery,
		},
		{
			name: "only unsupported files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				touch(t, dir, "readme.md", 1)
				touch(t, dir, "anim.gif", 1)
				return dir
			},
			wantErr: ErrEmptyGallery,
		},
		{
			name: "png and jpg with the same base name",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				touch(t, dir, "a.png", 1)
				touch(t, dir, "a.jpg", 1)
				return dir
			},
			wantErr: ErrNameCollision,
		},
		{
			name: "jpeg and JPG with the same base name",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				touch(t, dir, "x.jpeg", 1)
				touch(t, dir, "x.JPG", 1)
				return dir
			},
			wantErr: ErrNameCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			result, err := New(config.DefaultConfig()).Scan(dir)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Scan() error = %v, want %v", err, tt.wantErr)
			}
			if result != nil {
				t.Errorf("Scan() result = %+v, want nil", result)
			}
		})
	}
}
