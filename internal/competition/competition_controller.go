package competition

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ctfboard/internal/middleware"
	"ctfboard/internal/team"
	"ctfboard/pkg/responses"
	"ctfboard/pkg/validator"

	"github.com/gin-gonic/gin"
)

// CompetitionController handles competition administration and the
// player-facing task listing.
type CompetitionController struct {
	repo     CompetitionRepository
	teamRepo team.TeamRepository
}

func NewCompetitionController(repo CompetitionRepository, teamRepo team.TeamRepository) *CompetitionController {
	return &CompetitionController{repo: repo, teamRepo: teamRepo}
}

// CreateCompetitionRequest is the payload for competition creation.
type CreateCompetitionRequest struct {
	Name        string     `json:"name" binding:"required,max=128"`
	Description string     `json:"description"`
	DateStart   *time.Time `json:"date_start"`
	DateEnd     *time.Time `json:"date_end"`
}

// BindTaskRequest binds a task into a competition with a score.
type BindTaskRequest struct {
	TaskID uint `json:"task_id" binding:"required"`
	Score  int  `json:"score" binding:"required,gt=0"`
}

// UpdateScoreRequest changes the score of an existing binding.
type UpdateScoreRequest struct {
	Score int `json:"score" binding:"required,gt=0"`
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// @Summary      Create a competition
// @Tags         Competitions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  responses.SuccessResponse
// @Router       /competitions [post]
func (cc *CompetitionController) CreateCompetition(c *gin.Context) {
	var req CreateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": validator.ParseError(err)})
		return
	}
	if req.DateStart != nil && req.DateEnd != nil && !req.DateEnd.After(*req.DateStart) {
		responses.BadRequest(c, "date_end must be after date_start")
		return
	}

	comp := &Competition{
		Name:        req.Name,
		Description: req.Description,
		DateStart:   req.DateStart,
		DateEnd:     req.DateEnd,
	}
	if err := cc.repo.CreateCompetition(comp); err != nil {
		responses.InternalServerError(c, "Failed to create competition")
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Competition created successfully", comp)
}

// @Summary      List competitions
// @Tags         Competitions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse
// @Router       /competitions [get]
func (cc *CompetitionController) ListCompetitions(c *gin.Context) {
	comps, err := cc.repo.ListCompetitions()
	if err != nil {
		responses.InternalServerError(c, "Competition lookup failed")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", comps)
}

// @Summary      Get a competition
// @Description  Fetching refreshes the derived running flag against the date window.
// @Tags         Competitions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Competition ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /competitions/{id} [get]
func (cc *CompetitionController) GetCompetition(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	comp, err := cc.repo.GetCompetition(id)
	if err != nil {
		responses.InternalServerError(c, "Competition lookup failed")
		return
	}
	if comp == nil {
		responses.NotFound(c, "Competition")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "", comp)
}

// @Summary      Delete a competition
// @Tags         Competitions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Competition ID"
// @Success      200  {object}  responses.SuccessResponse
// @Router       /competitions/{id} [delete]
func (cc *CompetitionController) DeleteCompetition(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := cc.repo.DeleteCompetition(id); err != nil {
		responses.InternalServerError(c, "Failed to delete competition")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Competition deleted successfully", nil)
}

// @Summary      Bind a task to a competition
// @Tags         Competitions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Competition ID"
// @Success      201  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse "Unknown task or competition"
// @Failure      409  {object}  responses.ErrorResponse "Task already bound"
// @Router       /competitions/{id}/tasks [post]
func (cc *CompetitionController) BindTask(c *gin.Context) {
	compID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req BindTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": validator.ParseError(err)})
		return
	}

	binding, err := cc.repo.BindTask(compID, req.TaskID, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownTask):
			responses.NotFound(c, "Task")
		case errors.Is(err, ErrUnknownCompetition):
			responses.NotFound(c, "Competition")
		case errors.Is(err, ErrAlreadyBound):
			responses.Conflict(c, ErrAlreadyBound.Error())
		default:
			responses.InternalServerError(c, "Failed to bind task")
		}
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Task bound successfully", binding)
}

// @Summary      Update a binding's score
// @Tags         Competitions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int  true  "Competition ID"
// @Param        task_id  path  int  true  "Task ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse "Task not bound"
// @Router       /competitions/{id}/tasks/{task_id} [put]
func (cc *CompetitionController) UpdateScore(c *gin.Context) {
	compID, ok := idParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := idParam(c, "task_id")
	if !ok {
		return
	}

	var req UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": validator.ParseError(err)})
		return
	}

	binding, err := cc.repo.UpdateScore(compID, taskID, req.Score)
	if err != nil {
		if errors.Is(err, ErrNotBound) {
			responses.NotFound(c, "Binding")
			return
		}
		responses.InternalServerError(c, "Failed to update score")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Score updated successfully", binding)
}

// @Summary      Unbind a task from a competition
// @Description  Historical submissions keep their snapshotted score.
// @Tags         Competitions
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int  true  "Competition ID"
// @Param        task_id  path  int  true  "Task ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse "Task not bound"
// @Router       /competitions/{id}/tasks/{task_id} [delete]
func (cc *CompetitionController) UnbindTask(c *gin.Context) {
	compID, ok := idParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := idParam(c, "task_id")
	if !ok {
		return
	}

	if err := cc.repo.UnbindTask(compID, taskID); err != nil {
		if errors.Is(err, ErrNotBound) {
			responses.NotFound(c, "Binding")
			return
		}
		responses.InternalServerError(c, "Failed to unbind task")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Task unbound successfully", nil)
}

// @Summary      List a competition's tasks
// @Description  Tasks ordered ascending by score. Players must belong to a team in the competition.
// @Tags         Competitions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Competition ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      403  {object}  responses.ErrorResponse "Caller has no team in this competition"
// @Router       /competitions/{id}/tasks [get]
func (cc *CompetitionController) ListTasks(c *gin.Context) {
	compID, ok := idParam(c, "id")
	if !ok {
		return
	}

	comp, err := cc.repo.GetCompetition(compID)
	if err != nil {
		responses.InternalServerError(c, "Competition lookup failed")
		return
	}
	if comp == nil {
		responses.NotFound(c, "Competition")
		return
	}

	// Team membership is an access gate, not a UI convenience: the listing
	// itself refuses players without a team in this competition. Admins are
	// exempt, as they browse competitions they administer.
	if !middleware.IsAdminFromContext(c) {
		userID, err := middleware.GetUserIDFromContext(c)
		if err != nil {
			responses.Unauthorized(c, "")
			return
		}
		inTeam, err := cc.teamRepo.IsUserInCompetitionTeam(compID, userID)
		if err != nil {
			responses.InternalServerError(c, "Membership lookup failed")
			return
		}
		if !inTeam {
			responses.Forbidden(c, "Join or create a team for this competition first")
			return
		}
	}

	tasks, err := cc.repo.ListTasksForCompetition(compID)
	if err != nil {
		responses.InternalServerError(c, "Task lookup failed")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "", tasks)
}
