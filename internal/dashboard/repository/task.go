package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
)

// Task is a follow-up need raised by a contact
type Task struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	NeedText     string    `db:"need_text" json:"need_text"`
	Priority     string    `db:"priority" json:"priority"`
	Status       string    `db:"status" json:"status"`
	AssignedTo   *int64    `db:"assigned_to" json:"assigned_to"`
	ContactName  *string   `db:"contact_name" json:"name"`
	ContactPhone string    `db:"contact_phone" json:"phone"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TaskPatch holds the task fields a PATCH may change
type TaskPatch struct {
	NeedText   *string `json:"need_text" validate:"omitempty,min=1"`
	Priority   *string `json:"priority" validate:"omitempty,task_priority"`
	Status     *string `json:"status" validate:"omitempty,task_status"`
	AssignedTo *int64  `json:"assigned_to" validate:"omitempty,gt=0"`
}

// TaskFilter narrows the task list
type TaskFilter struct {
	Status   string
	Priority string
	Search   string
	httputil.Pagination
}

const taskSelect = `
	SELECT t.id, t.user_id, t.need_text, t.priority, t.status, t.assigned_to,
	       c.name AS contact_name, c.phone AS contact_phone,
	       t.created_at, t.updated_at
	FROM tasks t
	JOIN contacts c ON c.id = t.user_id`

// TaskRepository handles task persistence
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func taskScope(scope tenant.Scope) *database.Filter {
	return database.NewFilterExpr(scope,
		"EXISTS (SELECT 1 FROM contacts oc WHERE oc.id = t.user_id AND oc.assigned_admin_id = ?)")
}

// List lists tasks, newest first
func (r *TaskRepository) List(ctx context.Context, scope tenant.Scope, filter TaskFilter) ([]Task, error) {
	query, args := taskScope(scope).
		WhereIf(!isAll(filter.Status), "t.status = ?", filter.Status).
		WhereIf(!isAll(filter.Priority), "t.priority = ?", filter.Priority).
		Search(filter.Search, "t.need_text", "c.name", "c.phone").
		Build(taskSelect,
			`ORDER BY t.created_at DESC, t.id DESC LIMIT ? OFFSET ?`,
			filter.Probe(), filter.Offset,
		)

	tasks := []Task{}
	if err := r.db.Q(ctx).SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetByID gets a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id int64, scope tenant.Scope) (*Task, error) {
	query, args := taskScope(scope).
		Where("t.id = ?", id).
		Build(taskSelect, "")

	var t Task
	if err := r.db.Q(ctx).GetContext(ctx, &t, query, args...); err != nil {
		return nil, database.MapError(err, "task")
	}
	return &t, nil
}

// Create creates a new task. The caller checks the contact is in scope.
func (r *TaskRepository) Create(ctx context.Context, t *Task) error {
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if t.Status == "" {
		t.Status = domain.TaskOpen
	}

	query := `
		INSERT INTO tasks (user_id, need_text, priority, status, assigned_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Q(ctx).QueryRowxContext(ctx, query,
		t.UserID, t.NeedText, t.Priority, t.Status, t.AssignedTo,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	return database.MapError(err, "task")
}

// Update applies a partial update
func (r *TaskRepository) Update(ctx context.Context, id int64, scope tenant.Scope, patch *TaskPatch) (*Task, error) {
	u := database.NewUpdate("tasks t")
	database.SetOptional(u, "need_text", patch.NeedText)
	database.SetOptional(u, "priority", patch.Priority)
	database.SetOptional(u, "status", patch.Status)
	database.SetOptional(u, "assigned_to", patch.AssignedTo)
	if u.Empty() {
		return r.GetByID(ctx, id, scope)
	}

	query, args := u.Build(taskScope(scope).Where("t.id = ?", id), "t.id")

	result, err := r.db.Q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, database.MapError(err, "task")
	}
	if err := requireAffected(result, "task"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id, scope)
}

// Delete deletes a task
func (r *TaskRepository) Delete(ctx context.Context, id int64, scope tenant.Scope) error {
	query, args := taskScope(scope).
		Where("t.id = ?", id).
		Build(`DELETE FROM tasks t`, "")

	result, err := r.db.Q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(result, "task")
}
