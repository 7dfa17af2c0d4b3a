package repo

import "errors"

// Общие ошибки репозитория.
var (
	// ErrNotFound — запись не найдена в метаданных.
	ErrNotFound = errors.New("not found")
)
