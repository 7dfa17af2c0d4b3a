// Package telemetry — наблюдаемость утилит dev-стека.
//
//   - logging.go — structured logging через slog; формат и уровень
//     задаются переменными LOG_FORMAT и LOG_LEVEL
//
// Логи пишутся в stderr: stdout команд зарезервирован под данные.
// Prometheus-коллекторы живут рядом с кодом, который они измеряют
// (см. internal/waiter/metrics.go).
package telemetry
