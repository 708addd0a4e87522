// Command gallerycompress сжимает фотографии галереи и заменяет ими оригиналы.
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/artemshloyda/gallerycompress/internal/cli"
)

func main() {
	root := cli.NewRootCmd()

	// Прерывание останавливает запуск между файлами, оригиналы при этом не трогаются
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(cli.Version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
