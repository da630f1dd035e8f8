package service

import (
	"context"
	"strings"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
)

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	UserID     int64  `json:"user_id" validate:"required,gt=0"`
	NeedText   string `json:"need_text" validate:"required"`
	Priority   string `json:"priority" validate:"omitempty,task_priority"`
	Status     string `json:"status" validate:"omitempty,task_status"`
	AssignedTo *int64 `json:"assigned_to" validate:"omitempty,gt=0"`
}

// TaskService manages follow-up tasks
type TaskService struct {
	contacts *repository.ContactRepository
	tasks    *repository.TaskRepository
}

// NewTaskService creates a new task service
func NewTaskService(contacts *repository.ContactRepository, tasks *repository.TaskRepository) *TaskService {
	return &TaskService{contacts: contacts, tasks: tasks}
}

// List returns one page of tasks
func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) (httputil.Page[repository.Task], error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return httputil.Page[repository.Task]{}, err
	}
	filter.Status = httputil.OneOf(filter.Status, domain.TaskStatuses, domain.FilterAll)
	filter.Priority = httputil.OneOf(filter.Priority, domain.TaskPriorities, domain.FilterAll)

	rows, err := s.tasks.List(ctx, scope, filter)
	if err != nil {
		return httputil.Page[repository.Task]{}, err
	}
	return httputil.NewPage(rows, filter.Pagination), nil
}

// Create adds a task for a contact the caller owns
func (s *TaskService) Create(ctx context.Context, req *CreateTaskRequest) (*repository.Task, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	req.NeedText = strings.TrimSpace(req.NeedText)
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}

	contact, err := s.contacts.GetByID(ctx, req.UserID, scope)
	if err != nil {
		return nil, err
	}

	task := &repository.Task{
		UserID:       contact.ID,
		NeedText:     req.NeedText,
		Priority:     req.Priority,
		Status:       req.Status,
		AssignedTo:   req.AssignedTo,
		ContactName:  contact.Name,
		ContactPhone: contact.Phone,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update changes a task
func (s *TaskService) Update(ctx context.Context, id int64, patch *repository.TaskPatch) (*repository.Task, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := httputil.Validate(patch); err != nil {
		return nil, err
	}
	return s.tasks.Update(ctx, id, scope, patch)
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	_, scope, err := caller(ctx)
	if err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id, scope)
}
