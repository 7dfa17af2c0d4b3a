// Package dagdef разбирает и валидирует YAML-определения DAG'ов из dags/.
//
// Структура:
//   - parser.go — парсинг файлов и валидация определений
//   - graph.go  — построение графа задач и проверка на циклы
//   - cron.go   — валидация cron-расписаний
//   - errors.go — ошибки валидации
//
// Harness валидирует DAG-файлы до того, как они попадут в контейнеры
// стека: ошибка в определении должна ловиться на pre-commit, а не в
// планировщике.
package dagdef
