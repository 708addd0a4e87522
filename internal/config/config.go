// Package config содержит конфигурацию приложения.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// GalleryRelPath - путь к галерее относительно директории утилиты.
	GalleryRelPath = "imgs/gallery"

	// StagingSuffix - суффикс временной директории рядом с галереей.
	StagingSuffix = "-temp"
)

// Config содержит фиксированные параметры сжатия.
// Передаётся по значению и не меняется во время запуска.
type Config struct {
	// Quality - качество JPEG (1-100).
	Quality int

	// MaxWidth - максимальная ширина изображения.
	MaxWidth int

	// MaxHeight - максимальная высота изображения.
	MaxHeight int

	// InputExtensions - расширения входных файлов (без точки, lowercase).
	InputExtensions []string

	// OutputExtension - расширение выходных файлов (без точки).
	OutputExtension string
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		Quality:         80,
		MaxWidth:        1920,
		MaxHeight:       1080,
		InputExtensions: []string{"jpg", "jpeg", "png"},
		OutputExtension: "jpg",
	}
}

// Validate проверяет корректность конфигурации.
func (c Config) Validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("качество должно быть от 1 до 100, получено: %d", c.Quality)
	}
	if c.MaxWidth < 1 || c.MaxHeight < 1 {
		return fmt.Errorf("некорректные границы: %dx%d", c.MaxWidth, c.MaxHeight)
	}
	if len(c.InputExtensions) == 0 {
		return fmt.Errorf("не указаны расширения входных файлов")
	}
	if c.OutputExtension == "" {
		return fmt.Errorf("не указано расширение выходных файлов")
	}
	return nil
}

// HasInputExtension проверяет, поддерживается ли расширение файла.
func (c Config) HasInputExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return false
	}
	for _, e := range c.InputExtensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// OutputName возвращает имя выходного файла для исходного имени.
// Например: "photo.PNG" -> "photo.jpg".
func (c Config) OutputName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + c.OutputExtension
}

// Layout описывает расположение галереи и временной директории.
type Layout struct {
	// GalleryDir - директория галереи.
	GalleryDir string

	// StagingDir - временная директория для сжатых файлов.
	StagingDir string
}

// ResolveLayout строит Layout относительно baseDir.
func ResolveLayout(baseDir string) Layout {
	gallery := filepath.Join(baseDir, filepath.FromSlash(GalleryRelPath))
	return Layout{
		GalleryDir: gallery,
		StagingDir: gallery + StagingSuffix,
	}
}

// LayoutFromExecutable строит Layout относительно директории исполняемого файла.
func LayoutFromExecutable() (Layout, error) {
	execPath, err := os.Executable()
	if err != nil {
		return Layout{}, fmt.Errorf("не удалось определить путь к утилите: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return ResolveLayout(filepath.Dir(execPath)), nil
}
