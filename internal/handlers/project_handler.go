package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/officevault/backend/internal/authz"
	"github.com/officevault/backend/internal/dto"
	"github.com/officevault/backend/internal/middleware"
	"github.com/officevault/backend/internal/models"
	"github.com/officevault/backend/internal/services"
	"github.com/officevault/backend/internal/storage"
)

type ProjectService interface {
	Create(userID uuid.UUID, title, description, location string, files []string) (*models.Project, error)
	List() ([]models.Project, error)
	Get(id uuid.UUID) (*models.Project, error)
	AddFiles(id uuid.UUID, files []string) (*models.Project, error)
	RemoveFile(id uuid.UUID, path string) (*models.Project, error)
	Delete(id uuid.UUID) error
}

type ProjectHandler struct {
	projects ProjectService
	files    storage.Saver
}

func NewProjectHandler(projects ProjectService, files storage.Saver) *ProjectHandler {
	return &ProjectHandler{projects: projects, files: files}
}

// Create handles POST /projects (multipart, files[] field). Any
// authenticated user may submit; at least one file is required.
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authorized, token failed",
		})
	}

	uploads, err := formFiles(c)
	if err != nil || len(uploads) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Please upload at least one project file",
		})
	}

	location := c.FormValue("location")
	if location == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Project Location is required",
		})
	}

	urls, err := h.saveAll(uploads)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store project files",
		})
	}

	project, err := h.projects.Create(user.ID, c.FormValue("title"), c.FormValue("description"), location, urls)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectTitleRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Project Title is required",
			})
		case errors.Is(err, services.ErrLocationRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Project Location is required",
			})
		case errors.Is(err, services.ErrFilesRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Please upload at least one project file",
			})
		default:
			// Store failures carry internals; never echo them back.
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to create project",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// List handles GET /projects, newest first.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	projects, err := h.projects.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list projects",
		})
	}
	return c.JSON(projects)
}

// AddFiles handles PUT /projects/:id/add. Open to any authenticated
// user per the mutation policy.
func (h *ProjectHandler) AddFiles(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid project id",
		})
	}

	uploads, err := formFiles(c)
	if err != nil || len(uploads) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "No files uploaded",
		})
	}

	urls, err := h.saveAll(uploads)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store project files",
		})
	}

	project, err := h.projects.AddFiles(id, urls)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Project not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to add files",
		})
	}

	return c.JSON(project)
}

// RemoveFile handles PUT /projects/:id/remove-file. Matching is exact;
// an absent reference still answers 200 with the unchanged project.
func (h *ProjectHandler) RemoveFile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid project id",
		})
	}

	var req dto.RemoveFileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	project, err := h.projects.RemoveFile(id, req.FilePath)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Project not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to remove file",
		})
	}

	return c.JSON(project)
}

// Delete handles DELETE /projects/:id: admin or owner only. Stored
// blobs are retained as archive.
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authorized, token failed",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid project id",
		})
	}

	project, err := h.projects.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Project not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load project",
		})
	}

	if err := authz.CanPerform(user.Role, user.ID, authz.OpDeleteProject, authz.Resource{OwnerID: project.CreatedBy}); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authorized to delete this project",
		})
	}

	if err := h.projects.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete project",
		})
	}

	return c.JSON(dto.DeletedResponse{Message: "Project removed", ID: id})
}

func (h *ProjectHandler) saveAll(uploads []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, f := range uploads {
		url, err := h.files.Save(f)
		if err != nil {
			slog.Error("project file upload failed", "error", err, "action", "save_project_file")
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func formFiles(c *fiber.Ctx) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	return form.File["files"], nil
}
