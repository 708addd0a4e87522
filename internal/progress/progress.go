// Package progress показывает ход сжатия галереи.
//
// Прогресс-бар рисуется в один поток (обычно stderr), а построчные сообщения
// о файлах идут в другой (stdout), так что вывод можно перенаправить в файл
// без управляющих последовательностей.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Bar - прогресс-бар по файлам галереи.
// Нулевой бар (без Options.Total или с Disabled) только печатает сообщения.
type Bar struct {
	mu sync.Mutex

	// bar - nil, если бар не рисуется.
	bar *progressbar.ProgressBar

	// failed - сколько файлов не удалось сжать, показывается в описании.
	failed int

	// output - куда выводятся сообщения.
	output io.Writer
}

// Options содержит настройки для прогресс-бара.
type Options struct {
	// Total - количество файлов.
	Total int64

	// Disabled - не рисовать бар, только сообщения.
	Disabled bool

	// Writer - куда рисовать бар (по умолчанию os.Stderr).
	Writer io.Writer

	// Output - куда выводить сообщения (по умолчанию os.Stdout).
	Output io.Writer
}

// IsTerminal возвращает true, если f - терминал.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// New создаёт новый прогресс-бар.
func New(opts Options) *Bar {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	b := &Bar{output: output}
	if opts.Disabled || opts.Total <= 0 {
		return b
	}

	b.bar = progressbar.NewOptions64(
		opts.Total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("фото"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetDescription("Сжатие"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]▓[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
	return b
}

// Start показывает имя файла, который сейчас сжимается.
func (b *Bar) Start(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		b.bar.Describe(b.describe(name))
	}
}

// Done отмечает файл обработанным. Неудачные файлы учитываются в описании бара.
func (b *Bar) Done(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !ok {
		b.failed++
	}
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

// Finish завершает прогресс-бар.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_ = b.bar.Finish()
	}
}

// Printf выводит сообщение, временно скрывая прогресс-бар.
func (b *Bar) Printf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_ = b.bar.Clear()
	}

	fmt.Fprintf(b.output, format, args...)

	if b.bar != nil {
		_ = b.bar.RenderBlank()
	}
}

func (b *Bar) describe(name string) string {
	if b.failed == 0 {
		return "Сжатие " + name
	}
	return fmt.Sprintf("Сжатие %s [red](ошибок: %d)[reset]", name, b.failed)
}
