package dagdef

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Drydock/internal/domain"
)

// Допустимые типы задач.
var validTaskTypes = map[string]bool{
	domain.TaskTypeShell:  true,
	domain.TaskTypeWaiter: true,
	domain.TaskTypeNoop:   true,
}

// Parse разбирает YAML-определение DAG'а и валидирует его.
func Parse(data []byte) (*domain.DagDef, error) {
	var def domain.DagDef

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("decode dag definition: %w", err)
	}

	if err := Validate(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// ParseFile разбирает DAG-файл с диска.
func ParseFile(path string) (*domain.DagDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dag file: %w", err)
	}
	return Parse(data)
}

// Validate выполняет полную валидацию определения DAG'а.
//
// Проверяет:
//   - Наличие dag_id и задач
//   - Уникальность и непустоту id задач
//   - Корректность типов задач
//   - Команду у shell-задач, целевую ссылку у waiter-задач
//   - Валидность зависимостей и отсутствие циклов (делегируется графу)
//   - Валидность cron-расписания
func Validate(def *domain.DagDef) error {
	if strings.TrimSpace(def.DagID) == "" {
		return NewValidationError("", "", "dag_id", "dag has empty dag_id", ErrEmptyDagID)
	}

	if len(def.Tasks) == 0 {
		return NewValidationError(def.DagID, "", "tasks", "dag has no tasks", ErrEmptyTasks)
	}

	if def.Schedule != "" {
		if err := ValidateSchedule(def.Schedule); err != nil {
			return NewValidationError(def.DagID, "", "schedule", err.Error(), ErrInvalidSchedule)
		}
	}

	taskIDs := make(map[string]bool)
	for i := range def.Tasks {
		task := &def.Tasks[i]
		if err := validateTask(def.DagID, task, taskIDs); err != nil {
			return err
		}
	}

	// Зависимости и циклы проверяет построение графа
	if _, err := BuildGraph(def); err != nil {
		return err
	}

	return nil
}

// validateTask валидирует одну задачу.
// taskIDs — уже встреченные id (для проверки уникальности).
func validateTask(dagID string, task *domain.TaskDef, taskIDs map[string]bool) error {
	if strings.TrimSpace(task.TaskID) == "" {
		return NewValidationError(dagID, "", "task_id", "task has empty task_id", ErrEmptyTaskID)
	}

	if taskIDs[task.TaskID] {
		return NewValidationError(dagID, task.TaskID, "task_id",
			fmt.Sprintf("duplicate task_id: %s", task.TaskID), ErrDuplicateTaskID)
	}
	taskIDs[task.TaskID] = true

	if !validTaskTypes[task.Type] {
		return NewValidationError(dagID, task.TaskID, "type",
			fmt.Sprintf("unknown task type: %q", task.Type), ErrUnknownTaskType)
	}

	for _, dep := range task.DependsOn {
		if dep == task.TaskID {
			return NewValidationError(dagID, task.TaskID, "depends_on",
				"task depends on itself", ErrSelfDependency)
		}
	}

	switch task.Type {
	case domain.TaskTypeShell:
		if strings.TrimSpace(task.Command) == "" {
			return NewValidationError(dagID, task.TaskID, "command",
				"shell task has no command", ErrMissingCommand)
		}

	case domain.TaskTypeWaiter:
		if task.WaitsFor == nil {
			return NewValidationError(dagID, task.TaskID, "waits_for",
				"waiter task has no waits_for target", ErrMissingWaitTarget)
		}
		if _, err := task.WaitsFor.Ref(); err != nil {
			return NewValidationError(dagID, task.TaskID, "waits_for",
				fmt.Sprintf("invalid waits_for target: %v", err), ErrMissingWaitTarget)
		}
		// Ожидание задачи собственного DAG'а — это depends_on, не waiter
		if task.WaitsFor.DagID == dagID {
			return NewValidationError(dagID, task.TaskID, "waits_for",
				"waiter target must belong to another dag (use depends_on)", ErrMissingWaitTarget)
		}
	}

	return nil
}

// FileResult — результат валидации одного DAG-файла.
type FileResult struct {
	// Path — путь к файлу.
	Path string

	// Def — разобранное определение (nil при ошибке).
	Def *domain.DagDef

	// Err — ошибка парсинга или валидации.
	Err error
}

// Scan разбирает и валидирует все DAG-файлы в каталоге.
//
// Учитываются *.yaml и *.yml; файлы с префиксом "_" или "."
// пропускаются (черновики, служебные файлы).
func Scan(dir string) ([]FileResult, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			return nil
		}
		if ext := filepath.Ext(name); ext != ".yaml" && ext != ".yml" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan dags dir: %w", err)
	}

	sort.Strings(paths)

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		def, err := ParseFile(path)
		results = append(results, FileResult{Path: path, Def: def, Err: err})
	}
	return results, nil
}
