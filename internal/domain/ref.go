package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Ошибки конструирования TaskRef.
var (
	// ErrEmptyDagID — не указан dag id.
	ErrEmptyDagID = errors.New("task ref has empty dag id")

	// ErrEmptyTaskID — не указан task id.
	ErrEmptyTaskID = errors.New("task ref has empty task id")
)

// TaskRef — ссылка на задачу в другом, независимо планируемом DAG'е.
//
// Неизменяема после создания. Именно её получает waiter:
// пара (DagID, TaskID) однозначно определяет целевую задачу,
// конкретный instance выбирается по последнему run целевого DAG'а.
type TaskRef struct {
	// DagID — идентификатор целевого DAG'а.
	DagID string `json:"dag_id"`

	// TaskID — идентификатор задачи внутри целевого DAG'а.
	TaskID string `json:"task_id"`
}

// NewTaskRef создаёт TaskRef, проверяя обязательные поля.
func NewTaskRef(dagID, taskID string) (TaskRef, error) {
	if strings.TrimSpace(dagID) == "" {
		return TaskRef{}, ErrEmptyDagID
	}
	if strings.TrimSpace(taskID) == "" {
		return TaskRef{}, ErrEmptyTaskID
	}
	return TaskRef{DagID: dagID, TaskID: taskID}, nil
}

// String возвращает представление вида "dag_id.task_id".
func (r TaskRef) String() string {
	return fmt.Sprintf("%s.%s", r.DagID, r.TaskID)
}

// IsZero возвращает true для пустой ссылки.
func (r TaskRef) IsZero() bool {
	return r.DagID == "" && r.TaskID == ""
}
