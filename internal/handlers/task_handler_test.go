package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/officevault/backend/internal/authz"
	"github.com/officevault/backend/internal/middleware"
	"github.com/officevault/backend/internal/models"
	"github.com/officevault/backend/internal/services"
)

type fakeTaskService struct {
	createTask  *models.Task
	createCount int
	createErr   error
	lastParams  services.CreateTaskParams

	listTasks []models.Task
	listErr   error

	getTask *models.Task
	getErr  error

	updateTask  *models.Task
	updateErr   error
	lastStatus  *string
	lastReply   *string
	updateCalls int

	deleteErr   error
	deleteCalls int
}

func (f *fakeTaskService) Create(p services.CreateTaskParams) (*models.Task, int, error) {
	f.lastParams = p
	return f.createTask, f.createCount, f.createErr
}

func (f *fakeTaskService) ListFor(user *models.User) ([]models.Task, error) {
	return f.listTasks, f.listErr
}

func (f *fakeTaskService) Get(id uuid.UUID) (*models.Task, error) {
	return f.getTask, f.getErr
}

func (f *fakeTaskService) Update(id uuid.UUID, status *string, reply *string) (*models.Task, error) {
	f.updateCalls++
	f.lastStatus = status
	f.lastReply = reply
	return f.updateTask, f.updateErr
}

func (f *fakeTaskService) Delete(id uuid.UUID) error {
	f.deleteCalls++
	return f.deleteErr
}

type fakeSaver struct {
	saved []string
	err   error
}

func (f *fakeSaver) Save(file *multipart.FileHeader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	url := "/uploads/1-" + file.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func asUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("currentUser", user)
		return c.Next()
	}
}

func newTaskApp(h *TaskHandler, user *models.User) *fiber.App {
	app := fiber.New()
	app.Post("/api/tasks", asUser(user), middleware.Authorize(authz.OpCreateTask), h.Create)
	app.Get("/api/tasks", asUser(user), h.List)
	app.Put("/api/tasks/:id", asUser(user), h.Update)
	app.Delete("/api/tasks/:id", asUser(user), middleware.Authorize(authz.OpDeleteTask), h.Delete)
	return app
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewBuffer(b)
}

func decodeBody(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(body, into); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

func TestUpdateTaskByAssignee(t *testing.T) {
	assignee := &models.User{ID: uuid.New(), Role: models.RoleEmployee}
	task := &models.Task{ID: uuid.New(), AssignedTo: assignee.ID, Status: models.StatusPending}

	svc := &fakeTaskService{getTask: task, updateTask: task}
	app := newTaskApp(NewTaskHandler(svc, &fakeSaver{}), assignee)

	status := models.StatusCompleted
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+task.ID.String(),
		jsonBody(t, map[string]string{"status": status}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if svc.updateCalls != 1 || svc.lastStatus == nil || *svc.lastStatus != status {
		t.Fatalf("service not called with status: calls=%d status=%v", svc.updateCalls, svc.lastStatus)
	}
	if svc.lastReply != nil {
		t.Fatal("reply must stay untouched when absent from the request")
	}
}

func TestUpdateTaskByOtherEmployeeDenied(t *testing.T) {
	stranger := &models.User{ID: uuid.New(), Role: models.RoleEmployee}
	task := &models.Task{ID: uuid.New(), AssignedTo: uuid.New()}

	svc := &fakeTaskService{getTask: task}
	app := newTaskApp(NewTaskHandler(svc, &fakeSaver{}), stranger)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+task.ID.String(),
		jsonBody(t, map[string]string{"status": models.StatusCompleted}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if svc.updateCalls != 0 {
		t.Fatal("denied request must not reach the service")
	}
}

func TestUpdateTaskByAdminDenied(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	task := &models.Task{ID: uuid.New(), AssignedTo: uuid.New()}

	svc := &fakeTaskService{getTask: task}
	app := newTaskApp(NewTaskHandler(svc, &fakeSaver{}), admin)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+task.ID.String(),
		jsonBody(t, map[string]string{"employeeReply": "done"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status changes flow only from the assignee; expected 403, got %d", resp.StatusCode)
	}
}

func TestUpdateTaskEmptyBodyRejected(t *testing.T) {
	stranger := &models.User{ID: uuid.New(), Role: models.RoleEmployee}
	task := &models.Task{ID: uuid.New(), Title: "Confidential audit", AssignedTo: uuid.New()}

	svc := &fakeTaskService{getTask: task}
	app := newTaskApp(NewTaskHandler(svc, &fakeSaver{}), stranger)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+task.ID.String(),
		jsonBody(t, map[string]string{}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty update must answer 400, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(body), task.Title) {
		t.Fatal("foreign task payload leaked through an empty update")
	}
	if svc.updateCalls != 0 {
		t.Fatal("empty update must not reach the service")
	}
}

func TestUpdateUnknownTask(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleEmployee}
	svc := &fakeTaskService{getErr: services.ErrTaskNotFound}
	app := newTaskApp(NewTaskHandler(svc, &fakeSaver{}), user)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+uuid.NewString(),
		jsonBody(t, map[string]string{"status": models.StatusCompleted}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteTaskRequiresAdmin(t *testing.T) {
	task := &models.Task{ID: uuid.New(), AssignedTo: uuid.New()}

	employee := &models.User{ID: task.AssignedTo, Role: models.RoleEmployee}
	svc := &fakeTaskService{}
	app := newTaskApp(NewTaskHandler(svc, &fakeSaver{}), employee)

	req := httptest.NewRequest(http.MethodDelete, "/api/tasks/"+task.ID.String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("assignee must not delete their own task; expected 403, got %d", resp.StatusCode)
	}
	if svc.deleteCalls != 0 {
		t.Fatal("denied delete must not reach the service")
	}

	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	app = newTaskApp(NewTaskHandler(svc, &fakeSaver{}), admin)
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/tasks/"+task.ID.String(), nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin delete should succeed, got %d", resp.StatusCode)
	}
	if svc.deleteCalls != 1 {
		t.Fatal("admin delete should reach the service")
	}
}

func multipartTask(t *testing.T, fields map[string]string, fileField, fileName string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.Copy(part, strings.NewReader("file-bytes")); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestCreateTaskWithAttachment(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	assignee := uuid.New()
	created := &models.Task{ID: uuid.New(), Title: "Inspect pumps", AssignedTo: assignee}

	svc := &fakeTaskService{createTask: created, createCount: 1}
	saver := &fakeSaver{}
	app := newTaskApp(NewTaskHandler(svc, saver), admin)

	body, contentType := multipartTask(t, map[string]string{
		"title":      "Inspect pumps",
		"priority":   models.PriorityHigh,
		"assignedTo": assignee.String(),
	}, "file", "report.pdf")

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if len(saver.saved) != 1 {
		t.Fatalf("attachment not stored: %v", saver.saved)
	}
	if svc.lastParams.FileURL != saver.saved[0] {
		t.Fatalf("stored URL not passed through: %q", svc.lastParams.FileURL)
	}
	if svc.lastParams.AssignedTo != assignee.String() {
		t.Fatalf("assignee dropped: %q", svc.lastParams.AssignedTo)
	}
}

func TestCreateTaskBulkResponse(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	svc := &fakeTaskService{createTask: nil, createCount: 3}
	app := newTaskApp(NewTaskHandler(svc, &fakeSaver{}), admin)

	body, contentType := multipartTask(t, map[string]string{
		"title":      "Safety briefing",
		"assignedTo": "all",
	}, "", "")

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var out struct {
		IsBulk bool `json:"isBulk"`
		Count  int  `json:"count"`
	}
	decodeBody(t, resp, &out)
	if !out.IsBulk || out.Count != 3 {
		t.Fatalf("bulk response wrong: %+v", out)
	}
}

func TestCreateTaskByEmployeeDenied(t *testing.T) {
	employee := &models.User{ID: uuid.New(), Role: models.RoleEmployee}
	svc := &fakeTaskService{}
	app := newTaskApp(NewTaskHandler(svc, &fakeSaver{}), employee)

	body, contentType := multipartTask(t, map[string]string{
		"title":      "Sneaky task",
		"assignedTo": uuid.NewString(),
	}, "", "")

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
