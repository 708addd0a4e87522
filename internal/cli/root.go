// Package cli содержит CLI интерфейс приложения.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/artemshloyda/gallerycompress/internal/batch"
	"github.com/artemshloyda/gallerycompress/internal/config"
	"github.com/artemshloyda/gallerycompress/internal/progress"
)

var (
	// Version будет установлена при сборке.
	Version = "dev"

	// BuildTime будет установлена при сборке.
	BuildTime = "unknown"
)

const (
	// ExitFailure - галерея не найдена, пуста или замена не удалась.
	ExitFailure = 1

	// ExitDegraded - часть фото не сжата, оригиналы не тронуты.
	ExitDegraded = 2
)

// resolveLayout определяет расположение галереи. Подменяется в тестах.
var resolveLayout = config.LayoutFromExecutable

// ExitError - ошибка с кодом завершения процесса.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode возвращает код завершения для ошибки команды.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// NewRootCmd создаёт корневую команду CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gallerycompress",
		Short: "Сжатие фотографий галереи с заменой оригиналов",
		Long: `gallerycompress сжимает все JPEG/PNG из imgs/gallery (рядом с утилитой) в JPEG
качества 80, уменьшая фото больше 1920x1080 с сохранением пропорций.

Сжатые файлы сначала пишутся в imgs/gallery-temp. Оригиналы заменяются только
если все фото сжаты успешно; иначе галерея остаётся нетронутой, а во временной
директории остаются сжатые файлы и отчёт failures.yaml.

Коды завершения:
  0 - все фото сжаты и заменены
  1 - галерея не найдена, пуста или замена не удалась
  2 - часть фото не сжата, оригиналы не тронуты`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCompress,
	}

	// Подкоманды
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newFailuresCmd())

	return rootCmd
}

// runCompress выполняет основную логику сжатия.
func runCompress(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("ошибка конфигурации: %w", err)
	}

	layout, err := resolveLayout()
	if err != nil {
		return err
	}

	runner := batch.New(cfg, layout, batch.Options{
		Output:       cmd.OutOrStdout(),
		BarWriter:    cmd.ErrOrStderr(),
		ShowProgress: progress.IsTerminal(os.Stderr) && cmd.ErrOrStderr() == os.Stderr,
	})

	result, err := runner.Run(cmd.Context())
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	if result.Outcome == batch.OutcomeDegraded {
		return &ExitError{
			Code: ExitDegraded,
			Err:  fmt.Errorf("завершено с %d ошибками из %d", result.Failed(), result.Attempted),
		}
	}

	return nil
}

// newVersionCmd создаёт команду version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gallerycompress %s (built %s)\n", Version, BuildTime)
		},
	}
}

// newFailuresCmd создаёт команду failures для просмотра отчёта последнего неудачного запуска.
func newFailuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "failures",
		Short: "Показать ошибки последнего незавершённого запуска",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := resolveLayout()
			if err != nil {
				return err
			}

			path := filepath.Join(layout.StagingDir, batch.FailureReportName)
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "Отчёт об ошибках не найден: последний запуск завершился успешно или не выполнялся.")
				return nil
			}

			report, err := batch.LoadFailureReport(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "📋 Запуск %s (%s)\n", report.RunID, report.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "   Галерея: %s\n", report.Gallery)
			fmt.Fprintf(out, "   Сжато: %d/%d\n\n", report.Succeeded, report.Attempted)
			for _, f := range report.Failures {
				fmt.Fprintf(out, "✗ %s: %s\n", f.File, f.Error)
			}
			return nil
		},
	}
}
