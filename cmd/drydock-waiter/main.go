// Drydock Waiter — standalone-процесс ожидания задачи чужого DAG'а.
// Запускается внутри стека как команда waiter-задачи: блокируется,
// пока целевая задача не завершится, и отдаёт результат кодом выхода.
//
// Конфигурация — флаги либо переменные окружения:
//
//	--dag      / WAIT_DAG_ID        целевой DAG (обязательно)
//	--task     / WAIT_TASK_ID       целевая задача (обязательно)
//	--timeout  / WAIT_TIMEOUT       общий дедлайн (по умолчанию 5m)
//	--interval / WAIT_POLL_INTERVAL период опроса (по умолчанию 10s)
//
// Пока идёт ожидание, процесс отдаёт /healthz и /metrics.
//
// Коды выхода:
//
//	0 — целевая задача успешна
//	1 — целевая задача завершилась неуспехом
//	2 — дедлайн истёк
//	3 — цель не зарегистрирована либо ошибка конфигурации
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Drydock/internal/domain"
	"github.com/shaiso/Drydock/internal/repo"
	"github.com/shaiso/Drydock/internal/telemetry"
	"github.com/shaiso/Drydock/internal/waiter"
)

const (
	exitTargetFailed = 1
	exitTimeout      = 2
	exitConfig       = 3
)

func main() {
	logger := telemetry.SetupLogger()

	var (
		dagID    = flag.String("dag", os.Getenv("WAIT_DAG_ID"), "target DAG id")
		taskID   = flag.String("task", os.Getenv("WAIT_TASK_ID"), "target task id")
		timeout  = flag.Duration("timeout", envDuration("WAIT_TIMEOUT", 5*time.Minute), "overall wait deadline")
		interval = flag.Duration("interval", envDuration("WAIT_POLL_INTERVAL", 10*time.Second), "poll interval")
	)
	flag.Parse()

	target, err := domain.NewTaskRef(*dagID, *taskID)
	if err != nil {
		logger.Error("invalid target", "error", err)
		os.Exit(exitConfig)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to metadata db", "error", err)
		os.Exit(exitConfig)
	}
	defer pool.Close()

	w, err := waiter.New(waiter.Config{
		Source:       repo.NewInstanceRepo(pool),
		Target:       target,
		PollInterval: *interval,
		Timeout:      *timeout,
		Logger:       telemetry.WithDagID(logger, target.DagID),
	})
	if err != nil {
		logger.Error("invalid waiter config", "error", err)
		os.Exit(exitConfig)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	addr := ":8085"
	if v := os.Getenv("WAITER_PORT"); v != "" {
		addr = ":" + v
	}
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	err = w.Wait(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	switch {
	case err == nil:
		logger.Info("target task succeeded", "target", target.String())
	case errors.Is(err, waiter.ErrTargetNotFound):
		logger.Error("target not registered", "target", target.String(), "error", err)
		os.Exit(exitConfig)
	case errors.Is(err, waiter.ErrTargetFailed):
		logger.Error("target task failed", "target", target.String(), "error", err)
		os.Exit(exitTargetFailed)
	case errors.Is(err, waiter.ErrWaitTimeout):
		logger.Error("wait timed out", "target", target.String(), "error", err)
		os.Exit(exitTimeout)
	default:
		logger.Error("wait aborted", "target", target.String(), "error", err)
		os.Exit(exitConfig)
	}
}

// envDuration читает duration из окружения, с дефолтом при отсутствии
// или ошибке разбора.
func envDuration(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
