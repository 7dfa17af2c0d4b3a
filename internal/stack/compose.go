package stack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

const (
	defaultComposeBin  = "podman-compose"
	defaultComposeFile = "compose.yaml"

	// Сколько строк stderr попадает в ошибку при падении команды.
	stderrTailLines = 10
)

// Compose — обёртка над compose-бинарём. Никакой логики сверх
// формирования аргументов и запуска процесса.
type Compose struct {
	bin    string
	file   string
	logger *slog.Logger

	// Stdout/Stderr по умолчанию наследуются от процесса;
	// в тестах подменяются.
	Stdout io.Writer
	Stderr io.Writer
}

// ComposeConfig — параметры обёртки. Нулевые значения заполняются
// из окружения (COMPOSE_BIN, COMPOSE_FILE) или умолчаниями.
type ComposeConfig struct {
	Bin    string
	File   string
	Logger *slog.Logger
}

// NewCompose создаёт обёртку и проверяет наличие бинаря в PATH.
func NewCompose(cfg ComposeConfig) (*Compose, error) {
	bin := cfg.Bin
	if bin == "" {
		bin = os.Getenv("COMPOSE_BIN")
	}
	if bin == "" {
		bin = defaultComposeBin
	}

	file := cfg.File
	if file == "" {
		file = os.Getenv("COMPOSE_FILE")
	}
	if file == "" {
		file = defaultComposeFile
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrComposeNotFound, bin)
	}

	return &Compose{
		bin:    bin,
		file:   file,
		logger: logger,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

// Up поднимает стек в фоне.
func (c *Compose) Up(ctx context.Context) error {
	return c.run(ctx, "up", "-d")
}

// Down останавливает стек. removeVolumes дополнительно удаляет volumes
// (база метаданных и очереди брокера будут потеряны).
func (c *Compose) Down(ctx context.Context, removeVolumes bool) error {
	args := []string{"down"}
	if removeVolumes {
		args = append(args, "-v")
	}
	return c.run(ctx, args...)
}

// Restart перезапускает сервисы стека.
func (c *Compose) Restart(ctx context.Context) error {
	return c.run(ctx, "restart")
}

// Logs выводит логи стека. service ограничивает вывод одним сервисом,
// follow включает режим слежения.
func (c *Compose) Logs(ctx context.Context, service string, follow bool) error {
	args := []string{"logs"}
	if follow {
		args = append(args, "-f")
	}
	if service != "" {
		args = append(args, service)
	}
	return c.run(ctx, args...)
}

// PS показывает состояние контейнеров стека.
func (c *Compose) PS(ctx context.Context) error {
	return c.run(ctx, "ps")
}

// Pull обновляет образы сервисов.
func (c *Compose) Pull(ctx context.Context) error {
	return c.run(ctx, "pull")
}

// Exec открывает интерактивную оболочку внутри сервиса.
func (c *Compose) Exec(ctx context.Context, service string, command ...string) error {
	if service == "" {
		return errors.New("service name is required")
	}
	if len(command) == 0 {
		command = []string{"/bin/bash"}
	}
	args := append([]string{"exec", service}, command...)

	cmd := exec.CommandContext(ctx, c.bin, c.composeArgs(args...)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}

// composeArgs дописывает -f <file> перед подкомандой.
func (c *Compose) composeArgs(args ...string) []string {
	return append([]string{"-f", c.file}, args...)
}

// run запускает compose-команду, пробрасывая stdout и собирая хвост
// stderr для сообщения об ошибке.
func (c *Compose) run(ctx context.Context, args ...string) error {
	full := c.composeArgs(args...)
	c.logger.Debug("running compose command", "bin", c.bin, "args", full)

	var stderr strings.Builder
	cmd := exec.CommandContext(ctx, c.bin, full...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = io.MultiWriter(c.Stderr, &stderr)

	if err := cmd.Run(); err != nil {
		if tail := stderrTail(stderr.String()); tail != "" {
			return fmt.Errorf("%s %s: %w: %s", c.bin, args[0], err, tail)
		}
		return fmt.Errorf("%s %s: %w", c.bin, args[0], err)
	}
	return nil
}

// stderrTail возвращает последние строки stderr одной строкой.
func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}
	return strings.TrimSpace(strings.Join(lines, "; "))
}
