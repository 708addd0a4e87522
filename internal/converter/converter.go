// Package converter содержит логику сжатия одного изображения в JPEG.
package converter

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg" // регистрирует декодер JPEG
	_ "image/png"  // регистрирует декодер PNG
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"
	ljpeg "github.com/pixiv/go-libjpeg/jpeg"

	"github.com/artemshloyda/gallerycompress/internal/config"
)

// Converter сжимает изображения согласно конфигурации.
type Converter struct {
	// cfg - конфигурация.
	cfg config.Config
}

// Stats содержит размеры до и после сжатия.
type Stats struct {
	// Format - формат исходного файла (jpeg, png).
	Format string

	// Mode - цветовой режим исходного изображения.
	Mode ColorMode

	// OriginalBytes - размер исходного файла.
	OriginalBytes int64

	// OriginalWidth, OriginalHeight - исходные размеры в пикселях.
	OriginalWidth  int
	OriginalHeight int

	// Width, Height - размеры результата в пикселях.
	Width  int
	Height int

	// Bytes - размер результата.
	Bytes int64
}

// Reduction возвращает процент уменьшения размера файла.
func (s Stats) Reduction() float64 {
	if s.OriginalBytes == 0 {
		return 0
	}
	return (1 - float64(s.Bytes)/float64(s.OriginalBytes)) * 100
}

// Resized возвращает true, если изображение было уменьшено.
func (s Stats) Resized() bool {
	return s.Width != s.OriginalWidth || s.Height != s.OriginalHeight
}

// ConvertResult содержит результат сжатия одного файла.
type ConvertResult struct {
	// Success - успешно ли сжатие.
	Success bool

	// SrcPath - путь к исходному файлу.
	SrcPath string

	// DstPath - путь к выходному файлу (пустой при ошибке).
	DstPath string

	// Stats - статистика (заполнена частично при ошибке).
	Stats Stats

	// Error - ошибка (если есть).
	Error error

	// Duration - время сжатия.
	Duration time.Duration
}

// New создаёт новый Converter.
func New(cfg config.Config) *Converter {
	return &Converter{cfg: cfg}
}

// Convert сжимает srcPath в JPEG и записывает результат в dstPath.
// При ошибке dstPath не создаётся.
func (c *Converter) Convert(srcPath, dstPath string) *ConvertResult {
	start := time.Now()
	result := &ConvertResult{SrcPath: srcPath}

	fail := func(err error) *ConvertResult {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	img, format, size, err := decodeFile(srcPath)
	if err != nil {
		return fail(err)
	}

	b := img.Bounds()
	result.Stats.Format = format
	result.Stats.OriginalBytes = size
	result.Stats.OriginalWidth = b.Dx()
	result.Stats.OriginalHeight = b.Dy()

	working, mode := c.Transform(img)
	result.Stats.Mode = mode
	result.Stats.Width = working.Bounds().Dx()
	result.Stats.Height = working.Bounds().Dy()

	if err := c.writeFile(dstPath, working); err != nil {
		return fail(err)
	}

	info, err := os.Stat(dstPath)
	if err != nil {
		return fail(fmt.Errorf("не удалось прочитать результат %s: %w", dstPath, err))
	}

	result.Success = true
	result.DstPath = dstPath
	result.Stats.Bytes = info.Size()
	result.Duration = time.Since(start)
	return result
}

// Transform нормализует цветовой режим и уменьшает изображение до границ.
func (c *Converter) Transform(img image.Image) (image.Image, ColorMode) {
	n := NormalizerFor(img)
	canvas := n.Normalize(img)

	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	nw, nh := FitWithin(w, h, c.cfg.MaxWidth, c.cfg.MaxHeight)
	if nw == w && nh == h {
		return canvas, n.Mode()
	}

	return resize.Resize(uint(nw), uint(nh), canvas, resize.Lanczos3), n.Mode()
}

// Encode кодирует изображение в progressive JPEG с оптимизированными таблицами Хаффмана.
func (c *Converter) Encode(w io.Writer, img image.Image) error {
	return ljpeg.Encode(w, img, &ljpeg.EncoderOptions{
		Quality:         c.cfg.Quality,
		OptimizeCoding:  true,
		ProgressiveMode: true,
	})
}

// writeFile пишет JPEG во временный файл рядом с dstPath и переименовывает его.
// Имя временного файла оканчивается на .tmp и не совпадает ни с одним выходным именем.
func (c *Converter) writeFile(dstPath string, img image.Image) error {
	dir, base := filepath.Split(dstPath)
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("не удалось создать временный файл для %s: %w", base, err)
	}
	tmpPath := f.Name()

	bw := bufio.NewWriter(f)
	if err := c.Encode(bw, img); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("не удалось закодировать JPEG: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("не удалось записать %s: %w", tmpPath, err)
	}
	if err := f.Chmod(0644); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("не удалось выставить права %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("не удалось закрыть %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("не удалось переименовать %s -> %s: %w", tmpPath, dstPath, err)
	}
	return nil
}

// decodeFile открывает и декодирует изображение, возвращая формат и размер файла.
func decodeFile(path string) (image.Image, string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", 0, fmt.Errorf("не удалось открыть файл: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, "", 0, fmt.Errorf("не удалось получить info: %w", err)
	}

	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, "", info.Size(), fmt.Errorf("не удалось декодировать изображение: %w", err)
	}

	return img, format, info.Size(), nil
}

// FitWithin возвращает размеры, вписанные в maxW x maxH с сохранением пропорций.
// Изображения, которые уже помещаются, не увеличиваются.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	// Сравниваем w/maxW и h/maxH без деления
	if w*maxH >= h*maxW {
		nh := int(math.Round(float64(h) * float64(maxW) / float64(w)))
		return maxW, max(nh, 1)
	}

	nw := int(math.Round(float64(w) * float64(maxH) / float64(h)))
	return max(nw, 1), maxH
}

/*
Возможные расширения:
- Учитывать EXIF Orientation при декодировании JPEG
- Сохранять ICC профиль исходного файла
*/
