package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Drydock/internal/domain"
)

// InstanceRepo — читающий доступ к метаданным стека.
//
// Инвариант: репозиторий не выполняет INSERT/UPDATE/DELETE.
// Всё состояние runs и task instances принадлежит планировщику стека;
// harness его только наблюдает.
type InstanceRepo struct {
	pool *pgxpool.Pool
}

// NewInstanceRepo создаёт новый InstanceRepo.
func NewInstanceRepo(pool *pgxpool.Pool) *InstanceRepo {
	return &InstanceRepo{pool: pool}
}

// DagRegistered проверяет, зарегистрирован ли DAG в стеке.
func (r *InstanceRepo) DagRegistered(ctx context.Context, dagID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM dags WHERE dag_id = $1)
	`, dagID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check dag registered: %w", err)
	}
	return exists, nil
}

// TaskRegistered проверяет, что задача объявлена в зарегистрированном DAG'е.
func (r *InstanceRepo) TaskRegistered(ctx context.Context, ref domain.TaskRef) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM dag_tasks WHERE dag_id = $1 AND task_id = $2)
	`, ref.DagID, ref.TaskID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check task registered: %w", err)
	}
	return exists, nil
}

// LatestTaskInstance возвращает instance целевой задачи в самом свежем run
// целевого DAG'а (по logical_date; при нескольких попытках — последняя).
//
// ErrNotFound — задача ещё ни разу не попадала в run.
func (r *InstanceRepo) LatestTaskInstance(ctx context.Context, ref domain.TaskRef) (*domain.TaskInstance, error) {
	query := `
		SELECT ti.id, ti.run_id, ti.dag_id, ti.task_id, ti.try, ti.state,
		       ti.started_at, ti.finished_at, ti.error, ti.created_at
		FROM task_instances ti
		JOIN dag_runs r ON r.id = ti.run_id
		WHERE ti.dag_id = $1 AND ti.task_id = $2
		ORDER BY r.logical_date DESC, ti.try DESC
		LIMIT 1
	`
	return scanInstance(r.pool.QueryRow(ctx, query, ref.DagID, ref.TaskID))
}

// ListRuns возвращает последние runs DAG'а (для `drydock status`).
func (r *InstanceRepo) ListRuns(ctx context.Context, dagID string, limit int) ([]domain.DagRun, error) {
	query := `
		SELECT id, dag_id, logical_date, state, started_at, finished_at, created_at
		FROM dag_runs
		WHERE dag_id = $1
		ORDER BY logical_date DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, dagID, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.DagRun
	for rows.Next() {
		var run domain.DagRun
		err := rows.Scan(
			&run.ID,
			&run.DagID,
			&run.LogicalDate,
			&run.State,
			&run.StartedAt,
			&run.FinishedAt,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListDags возвращает идентификаторы всех зарегистрированных DAG'ов.
func (r *InstanceRepo) ListDags(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT dag_id FROM dags ORDER BY dag_id`)
	if err != nil {
		return nil, fmt.Errorf("list dags: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan dag id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- Helpers ---

func scanInstance(row pgx.Row) (*domain.TaskInstance, error) {
	var ti domain.TaskInstance
	var tiError *string

	err := row.Scan(
		&ti.ID,
		&ti.RunID,
		&ti.DagID,
		&ti.TaskID,
		&ti.Try,
		&ti.State,
		&ti.StartedAt,
		&ti.FinishedAt,
		&tiError,
		&ti.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task instance: %w", err)
	}

	if tiError != nil {
		ti.Error = *tiError
	}
	return &ti, nil
}
