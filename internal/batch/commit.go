package batch

import (
	"fmt"
	"os"
	"path/filepath"
)

// commit заменяет оригиналы сжатыми файлами.
// Вызывается только если все файлы запуска сжаты успешно.
// Любая ошибка оборачивается в ErrCommit.
func (r *Runner) commit(files []FileResult) error {
	r.progress.Printf("\n🔄 Замена оригинальных файлов...\n")

	// До первого удаления убеждаемся, что для каждого оригинала есть сжатая копия
	if err := r.verifyStaged(files); err != nil {
		return fmt.Errorf("%w: %w", ErrCommit, err)
	}

	for _, f := range files {
		if err := os.Remove(f.File.Path); err != nil {
			return fmt.Errorf("%w: не удалось удалить %s: %w", ErrCommit, f.File.Name, err)
		}
		r.progress.Printf("  🗑️  Удалён: %s\n", f.File.Name)
	}

	for _, f := range files {
		src := filepath.Join(r.layout.StagingDir, f.StagedName)
		dst := filepath.Join(r.layout.GalleryDir, f.StagedName)
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("%w: не удалось перенести %s: %w", ErrCommit, f.StagedName, err)
		}
		r.progress.Printf("  ✓ Заменён: %s\n", f.StagedName)
	}

	// Временная директория к этому моменту пуста
	if err := os.Remove(r.layout.StagingDir); err != nil {
		return fmt.Errorf("%w: не удалось удалить временную директорию: %w", ErrCommit, err)
	}

	return nil
}

// verifyStaged проверяет, что все сжатые файлы на месте и не пусты.
func (r *Runner) verifyStaged(files []FileResult) error {
	for _, f := range files {
		path := filepath.Join(r.layout.StagingDir, f.StagedName)
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("сжатый файл %s недоступен: %w", f.StagedName, err)
		}
		if !info.Mode().IsRegular() || info.Size() == 0 {
			return fmt.Errorf("сжатый файл %s повреждён", f.StagedName)
		}
	}
	return nil
}
