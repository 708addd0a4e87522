// Package scanner отвечает за поиск изображений в галерее.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/artemshloyda/gallerycompress/internal/config"
)

var (
	// ErrDirectoryNotFound - директория галереи не существует.
	ErrDirectoryNotFound = errors.New("директория галереи не найдена")

	// ErrEmptyGallery - в галерее нет подходящих изображений.
	ErrEmptyGallery = errors.New("в галерее не найдено изображений")

	// ErrNameCollision - два файла дают одно и то же выходное имя.
	ErrNameCollision = errors.New("конфликт выходных имён")
)

// File представляет изображение в галерее.
type File struct {
	// Name - имя файла в галерее.
	Name string

	// Path - абсолютный путь к файлу.
	Path string

	// Size - размер файла в байтах.
	Size int64
}

// Skipped - запись галереи с подходящим расширением, которая не будет обработана.
type Skipped struct {
	// Name - имя записи в галерее.
	Name string

	// Reason - причина пропуска.
	Reason string
}

// Result содержит результат поиска.
type Result struct {
	// Files - изображения, отсортированные по имени.
	Files []File

	// Skipped - пропущенные записи, отсортированные по имени.
	Skipped []Skipped
}

// Scanner ищет изображения в директории галереи.
type Scanner struct {
	cfg config.Config
}

// New создаёт новый Scanner.
func New(cfg config.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Scan ищет изображения в dir. Поддиректории не обходятся.
// Символические ссылки на обычные файлы считаются изображениями галереи.
func (s *Scanner) Scan(dir string) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("не удалось прочитать %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s не является директорией", ErrDirectoryNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать %s: %w", dir, err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}

	result := &Result{}
	for _, entry := range entries {
		name := entry.Name()
		if !s.cfg.HasInputExtension(filepath.Ext(name)) {
			continue
		}

		path := filepath.Join(absDir, name)

		// os.Stat проходит по символической ссылке
		fi, err := os.Stat(path)
		switch {
		case err != nil && entry.Type()&fs.ModeSymlink != 0:
			result.Skipped = append(result.Skipped, Skipped{Name: name, Reason: "битая символическая ссылка"})
			continue
		case err != nil:
			return nil, fmt.Errorf("не удалось получить info %s: %w", name, err)
		case fi.IsDir():
			result.Skipped = append(result.Skipped, Skipped{Name: name, Reason: "это директория"})
			continue
		case !fi.Mode().IsRegular():
			result.Skipped = append(result.Skipped, Skipped{Name: name, Reason: "не обычный файл"})
			continue
		}

		result.Files = append(result.Files, File{
			Name: name,
			Path: path,
			Size: fi.Size(),
		})
	}

	if len(result.Files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyGallery, dir)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Name < result.Files[j].Name
	})

	if err := s.checkCollisions(result.Files); err != nil {
		return nil, err
	}

	return result, nil
}

// checkCollisions проверяет, что выходные имена не пересекаются.
// "a.png" и "a.jpg" оба превратятся в "a.jpg", и одно фото потеряется при замене.
func (s *Scanner) checkCollisions(files []File) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		out := strings.ToLower(s.cfg.OutputName(f.Name))
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%w: %s и %s -> %s", ErrNameCollision, prev, f.Name, s.cfg.OutputName(f.Name))
		}
		seen[out] = f.Name
	}
	return nil
}
