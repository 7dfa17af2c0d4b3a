package stack

import (
	"fmt"
	"os"
	"path/filepath"
)

// ScaffoldDirs — каталоги, которые стек монтирует в контейнеры.
var ScaffoldDirs = []string{"dags", "logs", "plugins"}

// Scaffold готовит рабочий каталог стека: создаёт dags/, logs/,
// plugins/ и .env с UID хоста, чтобы файлы из контейнеров не
// приходили root'ом. Повторный вызов ничего не ломает.
func Scaffold(dir string) error {
	for _, d := range ScaffoldDirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}

	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return nil
	}

	content := fmt.Sprintf("STACK_UID=%d\n", os.Getuid())
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write .env: %w", err)
	}
	return nil
}
