package batch

import (
	"time"

	"github.com/artemshloyda/gallerycompress/internal/converter"
	"github.com/artemshloyda/gallerycompress/internal/scanner"
)

// Outcome определяет итог запуска.
type Outcome int

const (
	// OutcomeDone - все файлы сжаты, оригиналы заменены.
	OutcomeDone Outcome = iota
	// OutcomeDegraded - часть файлов не сжата, галерея не тронута.
	OutcomeDegraded
)

// String возвращает название итога.
func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// FileResult связывает найденный файл с результатом его сжатия.
type FileResult struct {
	// File - исходный файл в галерее.
	File scanner.File

	// StagedName - имя файла во временной директории.
	StagedName string

	// Result - результат сжатия.
	Result *converter.ConvertResult
}

// RunResult содержит статистику запуска.
type RunResult struct {
	// RunID - идентификатор запуска.
	RunID string

	// Attempted - количество файлов, для которых выполнялось сжатие.
	Attempted int

	// Succeeded - количество успешно сжатых файлов.
	Succeeded int

	// InputBytes - общий размер исходных файлов (успешно сжатых).
	InputBytes int64

	// OutputBytes - общий размер результатов.
	OutputBytes int64

	// Files - результаты по файлам в порядке обработки.
	Files []FileResult

	// Outcome - итог запуска.
	Outcome Outcome

	// Duration - время запуска.
	Duration time.Duration
}

// Failed возвращает количество файлов с ошибками.
func (r *RunResult) Failed() int {
	return r.Attempted - r.Succeeded
}

// AllSucceeded возвращает true, если все файлы сжаты успешно.
func (r *RunResult) AllSucceeded() bool {
	return r.Attempted > 0 && r.Succeeded == r.Attempted
}

// SavedBytes возвращает количество сэкономленных байт.
func (r *RunResult) SavedBytes() int64 {
	return r.InputBytes - r.OutputBytes
}

// SavedPercent возвращает процент экономии.
func (r *RunResult) SavedPercent() float64 {
	if r.InputBytes == 0 {
		return 0
	}
	return float64(r.SavedBytes()) / float64(r.InputBytes) * 100
}

// Failures возвращает результаты с ошибками.
func (r *RunResult) Failures() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if !f.Result.Success {
			out = append(out, f)
		}
	}
	return out
}

// add учитывает результат одного файла.
func (r *RunResult) add(fr FileResult) {
	r.Attempted++
	r.Files = append(r.Files, fr)
	if !fr.Result.Success {
		return
	}
	r.Succeeded++
	r.InputBytes += fr.Result.Stats.OriginalBytes
	r.OutputBytes += fr.Result.Stats.Bytes
}
