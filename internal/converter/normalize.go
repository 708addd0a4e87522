package converter

import (
	"image"
	"image/color"
	"image/draw"
)

// ColorMode определяет цветовой режим декодированного изображения.
type ColorMode int

const (
	// ModeOpaque - изображение без альфа-канала (RGB, YCbCr, Gray, CMYK).
	ModeOpaque ColorMode = iota
	// ModeAlpha - изображение с альфа-каналом.
	ModeAlpha
	// ModePalette - индексированное (палитровое) изображение.
	ModePalette
)

// String возвращает название режима.
func (m ColorMode) String() string {
	switch m {
	case ModeOpaque:
		return "opaque"
	case ModeAlpha:
		return "alpha"
	case ModePalette:
		return "palette"
	default:
		return "unknown"
	}
}

// DetectColorMode определяет цветовой режим изображения.
// Изображения с альфа-каналом, у которых все пиксели непрозрачны, считаются opaque.
func DetectColorMode(img image.Image) ColorMode {
	switch img.(type) {
	case *image.Paletted:
		return ModePalette
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return ModeOpaque
	}

	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return ModeOpaque
	}
	return ModeAlpha
}

// Normalizer приводит изображение к непрозрачному RGB перед JPEG кодированием.
type Normalizer interface {
	// Mode возвращает режим, который обрабатывает нормализатор.
	Mode() ColorMode

	// Normalize возвращает непрозрачное изображение с началом координат в (0, 0).
	Normalize(img image.Image) *image.RGBA
}

// NormalizerFor возвращает нормализатор для режима изображения.
// Прозрачные области заливаются белым.
func NormalizerFor(img image.Image) Normalizer {
	switch DetectColorMode(img) {
	case ModePalette:
		return paletteNormalizer{}
	case ModeAlpha:
		return alphaNormalizer{background: color.White}
	default:
		return opaqueNormalizer{}
	}
}

// opaqueNormalizer копирует пиксели как есть.
type opaqueNormalizer struct{}

func (opaqueNormalizer) Mode() ColorMode { return ModeOpaque }

func (opaqueNormalizer) Normalize(img image.Image) *image.RGBA {
	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)
	return canvas
}

// alphaNormalizer накладывает изображение на фон, используя альфа-канал как маску.
type alphaNormalizer struct {
	background color.Color
}

func (alphaNormalizer) Mode() ColorMode { return ModeAlpha }

func (n alphaNormalizer) Normalize(img image.Image) *image.RGBA {
	bg := n.background
	if bg == nil {
		bg = color.White
	}

	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Over)
	return canvas
}

// paletteNormalizer разворачивает палитру в NRGBA и дальше идёт тем же путём, что и alpha.
type paletteNormalizer struct{}

func (paletteNormalizer) Mode() ColorMode { return ModePalette }

func (paletteNormalizer) Normalize(img image.Image) *image.RGBA {
	b := img.Bounds()
	expanded := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(expanded, expanded.Bounds(), img, b.Min, draw.Src)
	return alphaNormalizer{background: color.White}.Normalize(expanded)
}
