package waiter

import "errors"

// Ошибки ожидания. Каждая различима через errors.Is:
// вызывающий DAG должен уметь отличать "цель не существует"
// (ошибка конфигурации) от "цель упала" и от "дедлайн истёк".
var (
	// ErrTargetNotFound — целевой DAG или задача не зарегистрированы в стеке.
	// Возвращается немедленно, без ожидания дедлайна.
	ErrTargetNotFound = errors.New("wait target not found")

	// ErrTargetFailed — целевая задача достигла неуспешного финального статуса.
	ErrTargetFailed = errors.New("wait target failed")

	// ErrWaitTimeout — дедлайн истёк, цель так и не стала финальной.
	ErrWaitTimeout = errors.New("wait deadline exceeded")
)
