package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/officevault/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectTitleRequired = errors.New("project title is required")
	ErrLocationRequired     = errors.New("project location is required")
	ErrFilesRequired        = errors.New("at least one project file is required")
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// Create requires a title, a location and at least one file reference.
func (s *ProjectService) Create(userID uuid.UUID, title, description, location string, files []string) (*models.Project, error) {
	if title == "" {
		return nil, ErrProjectTitleRequired
	}
	if location == "" {
		return nil, ErrLocationRequired
	}
	if len(files) == 0 {
		return nil, ErrFilesRequired
	}

	project := models.Project{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Location:    location,
		Files:       files,
		CreatedBy:   userID,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.Get(project.ID)
}

// List returns all projects, newest first, with creator info.
func (s *ProjectService) List() ([]models.Project, error) {
	var projects []models.Project
	err := s.db.Preload("Creator").Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.Preload("Creator").First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return &project, nil
}

// AddFiles appends references in upload order. A record predating the
// multi-file capability may have no collection at all; that reads as
// empty. Read-modify-write without a version check: two overlapping
// mutations can lose one append (see the concurrency notes).
func (s *ProjectService) AddFiles(id uuid.UUID, files []string) (*models.Project, error) {
	if len(files) == 0 {
		return nil, ErrFilesRequired
	}

	project, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	project.Files = models.AppendFiles(project.Files, files)
	if err := s.db.Model(&models.Project{}).Where("id = ?", id).Update("files", project.Files).Error; err != nil {
		return nil, fmt.Errorf("failed to add files: %w", err)
	}

	return s.Get(id)
}

// RemoveFile detaches an exact reference. A reference that is not
// present is a no-op success, so removal is idempotent. The blob
// itself is never deleted.
func (s *ProjectService) RemoveFile(id uuid.UUID, path string) (*models.Project, error) {
	project, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	project.Files = models.RemoveFile(project.Files, path)
	if err := s.db.Model(&models.Project{}).Where("id = ?", id).Update("files", project.Files).Error; err != nil {
		return nil, fmt.Errorf("failed to remove file: %w", err)
	}

	return s.Get(id)
}

// Delete removes the record only; stored blobs are retained.
func (s *ProjectService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
