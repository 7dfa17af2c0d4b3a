// Package lint проверяет DAG-определения на соответствие конвенциям
// репозитория.
//
// Структура:
//   - naming.go    — конвенция имён "{tenant}_{name}"
//   - resources.go — лимиты max_active_runs / max_active_tasks
//   - fix.go       — дозапись рекомендованных лимитов в DAG-файлы
//
// Ошибки блокируют (pre-commit / CI), warnings — нет.
package lint
