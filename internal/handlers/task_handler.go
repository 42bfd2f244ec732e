package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/officevault/backend/internal/authz"
	"github.com/officevault/backend/internal/dto"
	"github.com/officevault/backend/internal/middleware"
	"github.com/officevault/backend/internal/models"
	"github.com/officevault/backend/internal/services"
	"github.com/officevault/backend/internal/storage"
)

type TaskService interface {
	Create(p services.CreateTaskParams) (*models.Task, int, error)
	ListFor(user *models.User) ([]models.Task, error)
	Get(id uuid.UUID) (*models.Task, error)
	Update(id uuid.UUID, status *string, reply *string) (*models.Task, error)
	Delete(id uuid.UUID) error
}

type TaskHandler struct {
	tasks TaskService
	files storage.Saver
}

func NewTaskHandler(tasks TaskService, files storage.Saver) *TaskHandler {
	return &TaskHandler{tasks: tasks, files: files}
}

// Create handles POST /tasks (multipart). Admin-gated at the route.
// assignedTo="all" fans the task out to every employee.
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	params := services.CreateTaskParams{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Priority:    c.FormValue("priority"),
		AssignedTo:  c.FormValue("assignedTo"),
	}

	if raw := c.FormValue("projectId"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid project id",
			})
		}
		params.ProjectID = &projectID
	}

	if file, err := c.FormFile("file"); err == nil {
		url, err := h.files.Save(file)
		if err != nil {
			slog.Error("task attachment upload failed", "error", err, "action", "create_task")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to store attachment",
			})
		}
		params.FileURL = url
	}

	task, count, err := h.tasks.Create(params)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTitleRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Title and Assigned Employee are required",
			})
		case errors.Is(err, services.ErrNoEmployees):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "No employees found to assign task to",
			})
		case errors.Is(err, services.ErrAssigneeNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Assigned employee not found",
			})
		case errors.Is(err, services.ErrInvalidPriority):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid priority",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to create task",
			})
		}
	}

	if task == nil {
		return c.Status(fiber.StatusCreated).JSON(dto.BulkAssignResponse{
			Message: fmt.Sprintf("Task assigned to ALL %d employees successfully", count),
			IsBulk:  true,
			Count:   count,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// List answers GET /tasks: admins see everything, employees only their
// own assignments.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authorized, token failed",
		})
	}

	tasks, err := h.tasks.ListFor(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list tasks",
		})
	}
	return c.JSON(tasks)
}

// Update handles PUT /tasks/:id. Status and reply changes flow only
// from the assignee; admins are denied here on purpose.
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authorized, token failed",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid task id",
		})
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	// A body with nothing to change never reaches the record; answering
	// with the task here would leak foreign assignments past the
	// own-tasks-only scoping.
	if req.Status == nil && req.EmployeeReply == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Nothing to update",
		})
	}

	task, err := h.tasks.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Task not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load task",
		})
	}

	res := authz.Resource{AssigneeID: task.AssignedTo}
	if req.Status != nil {
		if err := authz.CanPerform(user.Role, user.ID, authz.OpUpdateTaskStatus, res); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Only the assignee can update this task",
			})
		}
	}
	if req.EmployeeReply != nil {
		if err := authz.CanPerform(user.Role, user.ID, authz.OpUpdateTaskReply, res); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Only the assignee can update this task",
			})
		}
	}

	updated, err := h.tasks.Update(id, req.Status, req.EmployeeReply)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid status",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update task",
		})
	}

	return c.JSON(updated)
}

// Delete handles DELETE /tasks/:id. Admin-gated at the route; the
// attached file stays in storage.
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid task id",
		})
	}

	if err := h.tasks.Delete(id); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Task not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete task",
		})
	}

	return c.JSON(dto.DeletedResponse{Message: "Task removed", ID: id})
}
