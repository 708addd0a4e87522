package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/artemshloyda/gallerycompress/internal/scanner"
)

// FailureReportName - имя отчёта об ошибках во временной директории.
const FailureReportName = "failures.yaml"

// FailureReport - отчёт о неудачном запуске для ручной проверки.
type FailureReport struct {
	RunID     string          `yaml:"run_id"`
	CreatedAt time.Time       `yaml:"created_at"`
	Gallery   string          `yaml:"gallery"`
	Attempted int             `yaml:"attempted"`
	Succeeded int             `yaml:"succeeded"`
	Failures  []FailureRecord `yaml:"failures"`
}

// FailureRecord описывает один файл, который не удалось сжать.
type FailureRecord struct {
	File  string `yaml:"file"`
	Error string `yaml:"error"`
}

// reportSkipped выводит записи галереи, которые не будут обработаны.
func (r *Runner) reportSkipped(skipped []scanner.Skipped) {
	for _, sk := range skipped {
		r.progress.Printf("⏭️  Пропущен: %s (%s)\n", sk.Name, sk.Reason)
	}
}

// reportFile выводит статистику успешно сжатого файла.
func (r *Runner) reportFile(fr FileResult) {
	st := fr.Result.Stats
	r.progress.Printf("✓ %s (%s)\n  %dx%d → %dx%d\n  %s → %s (%.1f%% меньше)\n\n",
		fr.File.Name, fr.Result.Duration.Round(time.Millisecond),
		st.OriginalWidth, st.OriginalHeight, st.Width, st.Height,
		humanize.IBytes(uint64(st.OriginalBytes)), humanize.IBytes(uint64(st.Bytes)), st.Reduction(),
	)
}

// reportFailure выводит ошибку сжатия файла.
func (r *Runner) reportFailure(fr FileResult) {
	r.progress.Printf("✗ %s: %v\n\n", fr.File.Name, fr.Result.Error)
}

// reportDone выводит итог успешного запуска.
func (r *Runner) reportDone(result *RunResult) {
	r.progress.Printf("\n✅ ГОТОВО! Фото сжаты и заменены.\n")
	r.progress.Printf("📊 Итого: %s → %s (сэкономлено %s, %.1f%%)\n",
		humanize.IBytes(uint64(result.InputBytes)),
		humanize.IBytes(uint64(result.OutputBytes)),
		humanize.IBytes(uint64(max(result.SavedBytes(), 0))),
		result.SavedPercent(),
	)
	r.progress.Printf("   Запуск: %s, время: %s\n", result.RunID, result.Duration.Round(time.Millisecond))
}

// reportDegraded выводит итог запуска с ошибками и пишет отчёт во временную директорию.
func (r *Runner) reportDegraded(result *RunResult) {
	r.progress.Printf("\n⚠️  Сжато %d/%d фото\n", result.Succeeded, result.Attempted)
	r.progress.Printf("Сжатые файлы находятся в: %s\n", r.layout.StagingDir)

	path, err := r.writeFailureReport(result)
	if err != nil {
		r.progress.Printf("⚠️  Не удалось записать отчёт об ошибках: %v\n", err)
	} else {
		r.progress.Printf("Отчёт об ошибках: %s\n", path)
	}

	r.progress.Printf("Оригиналы не изменены. Проверьте ошибки выше.\n")
	r.progress.Printf("   Запуск: %s, время: %s\n", result.RunID, result.Duration.Round(time.Millisecond))
}

// writeFailureReport сохраняет FailureReport в YAML.
func (r *Runner) writeFailureReport(result *RunResult) (string, error) {
	report := FailureReport{
		RunID:     result.RunID,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Gallery:   r.layout.GalleryDir,
		Attempted: result.Attempted,
		Succeeded: result.Succeeded,
	}
	for _, f := range result.Failures() {
		report.Failures = append(report.Failures, FailureRecord{
			File:  f.File.Name,
			Error: f.Result.Error.Error(),
		})
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return "", fmt.Errorf("не удалось сериализовать отчёт: %w", err)
	}

	path := filepath.Join(r.layout.StagingDir, FailureReportName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("не удалось записать %s: %w", path, err)
	}
	return path, nil
}

// LoadFailureReport читает отчёт об ошибках.
func LoadFailureReport(path string) (*FailureReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать отчёт: %w", err)
	}

	var report FailureReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("не удалось разобрать отчёт: %w", err)
	}
	return &report, nil
}
