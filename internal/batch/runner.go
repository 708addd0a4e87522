// Package batch выполняет пакетное сжатие галереи с заменой оригиналов.
//
// Запуск проходит четыре фазы: поиск файлов, сжатие во временную директорию,
// замена оригиналов (только если все файлы сжаты) и отчёт.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/artemshloyda/gallerycompress/internal/config"
	"github.com/artemshloyda/gallerycompress/internal/converter"
	"github.com/artemshloyda/gallerycompress/internal/progress"
	"github.com/artemshloyda/gallerycompress/internal/scanner"
)

// ErrCommit - ошибка ввода-вывода при замене оригиналов.
var ErrCommit = errors.New("не удалось заменить оригиналы")

// Options содержит настройки вывода.
type Options struct {
	// Output - куда выводить сообщения (по умолчанию os.Stdout).
	Output io.Writer

	// BarWriter - куда рисовать прогресс-бар (по умолчанию os.Stderr).
	BarWriter io.Writer

	// ShowProgress - рисовать прогресс-бар.
	ShowProgress bool
}

// Runner выполняет один запуск сжатия галереи.
type Runner struct {
	cfg       config.Config
	layout    config.Layout
	scanner   *scanner.Scanner
	converter *converter.Converter
	opts      Options
	progress  *progress.Bar
}

// New создаёт новый Runner.
func New(cfg config.Config, layout config.Layout, opts Options) *Runner {
	return &Runner{
		cfg:       cfg,
		layout:    layout,
		scanner:   scanner.New(cfg),
		converter: converter.New(cfg),
		opts:      opts,
	}
}

// Run выполняет запуск. Ошибки поиска файлов возвращаются до любых изменений на диске.
// Частичный успех не является ошибкой: результат имеет Outcome == OutcomeDegraded.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()

	found, err := r.scanner.Scan(r.layout.GalleryDir)
	if err != nil {
		return nil, err
	}
	files := found.Files

	if err := r.prepareStaging(); err != nil {
		return nil, err
	}

	result := &RunResult{RunID: uuid.NewString()}

	r.progress = progress.New(progress.Options{
		Total:    int64(len(files)),
		Disabled: !r.opts.ShowProgress,
		Writer:   r.opts.BarWriter,
		Output:   r.opts.Output,
	})

	r.reportSkipped(found.Skipped)
	r.progress.Printf("\n🖼️  Сжатие %d фото...\n\n", len(files))

	for _, file := range files {
		result.add(r.processFile(ctx, file))
	}
	r.progress.Finish()

	if !result.AllSucceeded() {
		result.Outcome = OutcomeDegraded
		result.Duration = time.Since(start)
		r.reportDegraded(result)
		return result, nil
	}

	r.progress.Printf("✅ Все %d фото сжаты успешно!\n", result.Succeeded)
	if err := r.commit(result.Files); err != nil {
		result.Outcome = OutcomeDegraded
		result.Duration = time.Since(start)
		return result, err
	}

	result.Outcome = OutcomeDone
	result.Duration = time.Since(start)
	r.reportDone(result)
	return result, nil
}

// prepareStaging создаёт пустую временную директорию.
// Остатки предыдущего неудачного запуска удаляются, чтобы не попасть в галерею.
func (r *Runner) prepareStaging() error {
	if err := os.RemoveAll(r.layout.StagingDir); err != nil {
		return fmt.Errorf("не удалось очистить временную директорию %s: %w", r.layout.StagingDir, err)
	}
	if err := os.MkdirAll(r.layout.StagingDir, 0755); err != nil {
		return fmt.Errorf("не удалось создать временную директорию %s: %w", r.layout.StagingDir, err)
	}
	return nil
}

// processFile сжимает один файл во временную директорию.
func (r *Runner) processFile(ctx context.Context, file scanner.File) FileResult {
	fr := FileResult{
		File:       file,
		StagedName: r.cfg.OutputName(file.Name),
	}

	r.progress.Start(file.Name)

	if err := ctx.Err(); err != nil {
		fr.Result = &converter.ConvertResult{
			SrcPath: file.Path,
			Error:   fmt.Errorf("прервано: %w", err),
		}
	} else {
		fr.Result = r.converter.Convert(file.Path, filepath.Join(r.layout.StagingDir, fr.StagedName))
	}

	if fr.Result.Success {
		r.reportFile(fr)
	} else {
		r.reportFailure(fr)
	}
	r.progress.Done(fr.Result.Success)

	return fr
}

/*
Возможные расширения:
- Переносить оригиналы в корзину вместо удаления при замене
*/
