package task

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ctfboard/pkg/responses"
	"ctfboard/pkg/storage"
	"ctfboard/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TaskController handles admin-side catalog management and attachment
// download. All mutations are admin-gated at the route level.
type TaskController struct {
	repo   TaskRepository
	store  storage.Store
	logger *logrus.Logger
}

func NewTaskController(repo TaskRepository, store storage.Store, logger *logrus.Logger) *TaskController {
	return &TaskController{repo: repo, store: store, logger: logger}
}

// TaskForm carries the multipart fields of create/update requests; the
// attachment, when present, arrives in the "file" form part.
type TaskForm struct {
	Name        string `form:"name" binding:"required,max=128"`
	Description string `form:"description"`
	Hint        string `form:"hint"`
	Flag        string `form:"flag"`
	CategoryID  uint   `form:"category_id" binding:"required"`
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// storeUpload saves the optional "file" form part and returns the stored
// name, or "" when the request carries no attachment.
func (tc *TaskController) storeUpload(c *gin.Context) (string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return tc.store.Save(src, header.Filename)
}

// releaseFile deletes a stored attachment. Failures are logged, never
// propagated: a dangling file must not fail the catalog operation that
// already succeeded.
func (tc *TaskController) releaseFile(name string) {
	if name == "" {
		return
	}
	if err := tc.store.Delete(name); err != nil {
		tc.logger.WithField("file", name).WithError(err).Warn("Failed to delete stored attachment")
	}
}

// @Summary      Create a task
// @Tags         Tasks
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        name         formData  string  true   "Task name"
// @Param        flag         formData  string  true   "Secret flag"
// @Param        category_id  formData  int     true   "Category ID"
// @Param        file         formData  file    false  "Attachment"
// @Success      201  {object}  responses.SuccessResponse
// @Failure      400  {object}  responses.ErrorResponse "Missing flag or invalid fields"
// @Router       /tasks [post]
func (tc *TaskController) CreateTask(c *gin.Context) {
	var form TaskForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": validator.ParseError(err)})
		return
	}
	if strings.TrimSpace(form.Flag) == "" {
		responses.BadRequest(c, "No flag set")
		return
	}

	cat, err := tc.repo.GetCategoryByID(form.CategoryID)
	if err != nil {
		responses.InternalServerError(c, "Category lookup failed")
		return
	}
	if cat == nil {
		responses.NotFound(c, "Category")
		return
	}

	storedFile, err := tc.storeUpload(c)
	if err != nil {
		responses.InternalServerError(c, "Failed to store attachment")
		return
	}

	t := &Task{
		Name:        form.Name,
		Description: form.Description,
		Hint:        form.Hint,
		Flag:        form.Flag,
		File:        storedFile,
		CategoryID:  form.CategoryID,
	}
	if err := tc.repo.CreateTask(t); err != nil {
		tc.releaseFile(storedFile)
		responses.InternalServerError(c, "Failed to create task")
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Task created successfully", t)
}

// @Summary      Update a task
// @Description  Replacing the attachment stores the new file before the old one is deleted.
// @Tags         Tasks
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /tasks/{id} [put]
func (tc *TaskController) UpdateTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	t, err := tc.repo.GetTaskByID(id)
	if err != nil {
		responses.InternalServerError(c, "Task lookup failed")
		return
	}
	if t == nil {
		responses.NotFound(c, "Task")
		return
	}

	var form TaskForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": validator.ParseError(err)})
		return
	}
	if strings.TrimSpace(form.Flag) == "" {
		responses.BadRequest(c, "No flag set")
		return
	}

	cat, err := tc.repo.GetCategoryByID(form.CategoryID)
	if err != nil {
		responses.InternalServerError(c, "Category lookup failed")
		return
	}
	if cat == nil {
		responses.NotFound(c, "Category")
		return
	}

	// Store the replacement before touching the record so there is never a
	// window with zero valid attachments.
	storedFile, err := tc.storeUpload(c)
	if err != nil {
		responses.InternalServerError(c, "Failed to store attachment")
		return
	}

	oldFile := t.File
	t.Name = form.Name
	t.Description = form.Description
	t.Hint = form.Hint
	t.Flag = form.Flag
	t.CategoryID = form.CategoryID
	if storedFile != "" {
		t.File = storedFile
	}

	if err := tc.repo.UpdateTask(t); err != nil {
		tc.releaseFile(storedFile)
		responses.InternalServerError(c, "Failed to update task")
		return
	}

	// The old attachment is released only after the update is durable.
	if storedFile != "" {
		tc.releaseFile(oldFile)
	}

	responses.SendSuccess(c, http.StatusOK, "Task updated successfully", t)
}

// @Summary      Delete a task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /tasks/{id} [delete]
func (tc *TaskController) DeleteTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	t, err := tc.repo.GetTaskByID(id)
	if err != nil {
		responses.InternalServerError(c, "Task lookup failed")
		return
	}
	if t == nil {
		responses.NotFound(c, "Task")
		return
	}

	tc.releaseFile(t.File)

	if err := tc.repo.DeleteTask(id); err != nil {
		responses.InternalServerError(c, "Failed to delete task")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Task deleted successfully", nil)
}

// @Summary      Get a task (admin view, includes nothing secret beyond hint)
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /tasks/{id} [get]
func (tc *TaskController) GetTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	t, err := tc.repo.GetTaskByID(id)
	if err != nil {
		responses.InternalServerError(c, "Task lookup failed")
		return
	}
	if t == nil {
		responses.NotFound(c, "Task")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "", t)
}

// @Summary      List all tasks
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse
// @Router       /tasks [get]
func (tc *TaskController) ListTasks(c *gin.Context) {
	tasks, err := tc.repo.ListTasks()
	if err != nil {
		responses.InternalServerError(c, "Task lookup failed")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", tasks)
}

// @Summary      Download a task attachment
// @Tags         Tasks
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        name  path  string  true  "Stored file name"
// @Success      200
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /files/{name} [get]
func (tc *TaskController) DownloadFile(c *gin.Context) {
	name := c.Param("name")
	path, err := tc.store.Path(name)
	if err != nil {
		responses.NotFound(c, "File")
		return
	}
	c.FileAttachment(path, name)
}

// CategoryForm is the payload for category creation.
type CategoryForm struct {
	Name string `json:"name" binding:"required,max=64"`
}

// @Summary      Create a category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  responses.SuccessResponse
// @Router       /categories [post]
func (tc *TaskController) CreateCategory(c *gin.Context) {
	var form CategoryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": validator.ParseError(err)})
		return
	}

	cat := &Category{Name: strings.TrimSpace(form.Name)}
	if cat.Name == "" {
		responses.BadRequest(c, "Category name must not be empty")
		return
	}
	if err := tc.repo.CreateCategory(cat); err != nil {
		responses.Conflict(c, "Category already exists")
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Category created successfully", cat)
}

// @Summary      List categories
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse
// @Router       /categories [get]
func (tc *TaskController) ListCategories(c *gin.Context) {
	cats, err := tc.repo.ListCategories()
	if err != nil {
		responses.InternalServerError(c, "Category lookup failed")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", cats)
}

// @Summary      Delete a category
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Category ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      409  {object}  responses.ErrorResponse "Category still has tasks"
// @Router       /categories/{id} [delete]
func (tc *TaskController) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := tc.repo.DeleteCategory(id); err != nil {
		if errors.Is(err, ErrCategoryInUse) {
			responses.Conflict(c, ErrCategoryInUse.Error())
			return
		}
		responses.InternalServerError(c, "Failed to delete category")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Category deleted successfully", nil)
}
