// Package cli реализует инструмент командной строки drydock.
//
// # Обзор
//
// CLI управляет локальным dev-стеком (podman-compose), проверяет
// YAML-определения DAG'ов и умеет ждать задачу чужого DAG'а через
// базу метаданных стека.
//
// # Ключевые компоненты
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json encoder) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error/Warn) — в stderr.
// Это позволяет использовать pipe: drydock status --json | jq .
//
// ## Commands
//
//   - стек: init, up (run), down (stop), restart, clean, clean-all,
//     logs [--service], status, shell [service], doctor
//   - dag: validate, lint, resources, fix-resources
//   - wait: блокирующее ожидание задачи чужого DAG'а
//
// Каждая группа создаётся через фабричную функцию (NewStackCmds,
// NewDagCmd, NewWaitCmd), принимающую outputFn — замыкание для
// ленивого создания Output после парсинга PersistentFlags.
package cli
