package lint

import (
	"fmt"

	"github.com/shaiso/Drydock/internal/domain"
)

// Рекомендованные и предельные лимиты ресурсов DAG'а.
// Предназначение — не дать dev-стеку съесть хост: каждый активный run
// и каждая активная задача — это процесс в контейнерах стека.
const (
	// DefaultMaxActiveRuns — рекомендованный лимит одновременных runs.
	DefaultMaxActiveRuns = 1

	// DefaultMaxActiveTasks — рекомендованный лимит одновременных задач.
	DefaultMaxActiveTasks = 3

	// MaxAllowedActiveRuns — жёсткий предел runs.
	MaxAllowedActiveRuns = 5

	// MaxAllowedActiveTasks — жёсткий предел задач.
	MaxAllowedActiveTasks = 10
)

// Report — результат проверки одного DAG-определения.
type Report struct {
	// Errors — блокирующие нарушения.
	Errors []string

	// Warnings — рекомендации, не блокируют.
	Warnings []string
}

// OK возвращает true, если блокирующих нарушений нет.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Merge дописывает результаты другого отчёта.
func (r *Report) Merge(other Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// CheckResources проверяет лимиты ресурсов DAG'а.
//
// Не задан лимит → warning с рекомендацией; выше рекомендованного →
// warning; выше жёсткого предела → ошибка.
func CheckResources(def *domain.DagDef) Report {
	var rep Report

	switch {
	case def.MaxActiveRuns == 0:
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("%s: max_active_runs not set (recommended: %d)", def.DagID, DefaultMaxActiveRuns))
	case def.MaxActiveRuns > MaxAllowedActiveRuns:
		rep.Errors = append(rep.Errors,
			fmt.Sprintf("%s: max_active_runs=%d exceeds maximum allowed (%d)",
				def.DagID, def.MaxActiveRuns, MaxAllowedActiveRuns))
	case def.MaxActiveRuns > DefaultMaxActiveRuns:
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("%s: max_active_runs=%d is higher than recommended (%d)",
				def.DagID, def.MaxActiveRuns, DefaultMaxActiveRuns))
	}

	switch {
	case def.MaxActiveTasks == 0:
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("%s: max_active_tasks not set (recommended: %d)", def.DagID, DefaultMaxActiveTasks))
	case def.MaxActiveTasks > MaxAllowedActiveTasks:
		rep.Errors = append(rep.Errors,
			fmt.Sprintf("%s: max_active_tasks=%d exceeds maximum allowed (%d)",
				def.DagID, def.MaxActiveTasks, MaxAllowedActiveTasks))
	case def.MaxActiveTasks > DefaultMaxActiveTasks:
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("%s: max_active_tasks=%d is higher than recommended (%d)",
				def.DagID, def.MaxActiveTasks, DefaultMaxActiveTasks))
	}

	return rep
}

// CheckDag выполняет все lint-проверки для одного определения.
func CheckDag(def *domain.DagDef) Report {
	var rep Report

	warning, err := CheckNaming(def.DagID)
	if err != nil {
		rep.Errors = append(rep.Errors, err.Error())
	}
	if warning != "" {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %s", def.DagID, warning))
	}

	rep.Merge(CheckResources(def))

	return rep
}
