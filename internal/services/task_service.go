package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/officevault/backend/internal/models"
	"github.com/officevault/backend/internal/notify"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTitleRequired    = errors.New("title and assigned employee are required")
	ErrNoEmployees      = errors.New("no employees found to assign task to")
	ErrAssigneeNotFound = errors.New("assigned employee not found")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrInvalidPriority  = errors.New("invalid task priority")
)

// AssignToAll is the creation-time sentinel that fans a task out to
// every employee. It is never persisted as an assignee.
const AssignToAll = "all"

type TaskService struct {
	db  *gorm.DB
	hub notify.Publisher
}

func NewTaskService(db *gorm.DB, hub notify.Publisher) *TaskService {
	return &TaskService{db: db, hub: hub}
}

type CreateTaskParams struct {
	Title       string
	Description string
	Priority    string
	AssignedTo  string
	ProjectID   *uuid.UUID
	FileURL     string
}

// Create inserts one task, or one per employee when AssignedTo is the
// "all" sentinel. Each fanned-out record is independent afterwards; no
// group identity links them. The notification goes out only after the
// durable write and never gates the response.
func (s *TaskService) Create(p CreateTaskParams) (*models.Task, int, error) {
	if p.Title == "" || p.AssignedTo == "" {
		return nil, 0, ErrTitleRequired
	}

	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(p.Priority) {
		return nil, 0, ErrInvalidPriority
	}

	if p.AssignedTo == AssignToAll {
		count, err := s.fanOut(p)
		if err != nil {
			return nil, 0, err
		}
		s.hub.Publish(notify.Event{Type: notify.EventTasksBulkAssigned}, notify.Everyone)
		return nil, count, nil
	}

	assigneeID, err := uuid.Parse(p.AssignedTo)
	if err != nil {
		return nil, 0, ErrAssigneeNotFound
	}
	var assignee models.User
	if err := s.db.First(&assignee, "id = ?", assigneeID).Error; err != nil {
		return nil, 0, ErrAssigneeNotFound
	}

	task := models.Task{
		ID:          uuid.New(),
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Status:      models.StatusPending,
		AssignedTo:  assigneeID,
		ProjectID:   p.ProjectID,
		File:        p.FileURL,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.Get(task.ID)
	if err != nil {
		return nil, 0, err
	}

	s.hub.Publish(notify.Event{Type: notify.EventTaskCreated, Task: created}, notify.TaskAudience(created))
	return created, 1, nil
}

// FanOutTasks expands one logical "assign to all" request into
// independent per-employee records. Pure; the caller persists them.
func FanOutTasks(p CreateTaskParams, employees []models.User) []models.Task {
	tasks := make([]models.Task, 0, len(employees))
	for _, e := range employees {
		tasks = append(tasks, models.Task{
			ID:          uuid.New(),
			Title:       p.Title,
			Description: p.Description,
			Priority:    p.Priority,
			Status:      models.StatusPending,
			AssignedTo:  e.ID,
			ProjectID:   p.ProjectID,
			File:        p.FileURL,
		})
	}
	return tasks
}

func (s *TaskService) fanOut(p CreateTaskParams) (int, error) {
	var employees []models.User
	if err := s.db.Where("role <> ?", models.RoleAdmin).Find(&employees).Error; err != nil {
		return 0, fmt.Errorf("failed to list employees: %w", err)
	}
	if len(employees) == 0 {
		return 0, ErrNoEmployees
	}

	tasks := FanOutTasks(p, employees)
	if err := s.db.Create(&tasks).Error; err != nil {
		return 0, fmt.Errorf("failed to create tasks: %w", err)
	}
	return len(tasks), nil
}

// ListFor returns every task for admins and only the caller's own
// assignments otherwise, populated with assignee and project info.
func (s *TaskService) ListFor(user *models.User) ([]models.Task, error) {
	query := s.db.Preload("Assignee").Preload("Project")
	if user.Role != models.RoleAdmin {
		query = query.Where("assigned_to = ?", user.ID)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.Preload("Assignee").Preload("Project").First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return &task, nil
}

// Update applies a status change, a reply change, or both. Whole-call
// last-write-wins; no concurrency token. The caller has already run
// the assignee check through the authorization policy.
func (s *TaskService) Update(id uuid.UUID, status *string, reply *string) (*models.Task, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if status != nil {
		if !models.ValidStatus(*status) {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *status
	}
	if reply != nil {
		updates["employee_reply"] = *reply
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}

	return s.Get(id)
}

// Delete removes the record only. The attached file stays in storage
// (archive retention).
func (s *TaskService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
