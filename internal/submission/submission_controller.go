package submission

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"ctfboard/internal/middleware"
	"ctfboard/internal/team"
	"ctfboard/pkg/cache"
	"ctfboard/pkg/responses"
	"ctfboard/pkg/validator"

	"github.com/gin-gonic/gin"
)

// SubmissionController accepts flag submissions.
type SubmissionController struct {
	repo       SubmissionRepository
	teamRepo   team.TeamRepository
	scoreboard *cache.ScoreboardCache
}

func NewSubmissionController(repo SubmissionRepository, teamRepo team.TeamRepository, scoreboard *cache.ScoreboardCache) *SubmissionController {
	return &SubmissionController{repo: repo, teamRepo: teamRepo, scoreboard: scoreboard}
}

// SubmitFlagRequest carries the base64-encoded candidate flag.
type SubmitFlagRequest struct {
	Flag string `json:"flag" binding:"required"`
}

// SubmitFlagResponse mirrors the submission contract: success is false for
// wrong flags and for any repeat submission, with no further detail.
type SubmitFlagResponse struct {
	Success bool `json:"success"`
}

// @Summary      Submit a flag
// @Description  Accepts a base64-encoded flag for a task bound to the competition.
// @Tags         Submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                true  "Competition ID"
// @Param        task_id  path  int                true  "Task ID"
// @Param        request  body  SubmitFlagRequest  true  "Base64-encoded flag"
// @Success      200  {object}  SubmitFlagResponse
// @Failure      403  {object}  responses.ErrorResponse "Caller has no team in this competition"
// @Failure      404  {object}  responses.ErrorResponse "Task not bound to competition"
// @Router       /competitions/{id}/tasks/{task_id}/submit [post]
func (sc *SubmissionController) SubmitFlag(c *gin.Context) {
	compID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || compID == 0 {
		responses.BadRequest(c, "Invalid competition ID")
		return
	}
	taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 32)
	if err != nil || taskID == 0 {
		responses.BadRequest(c, "Invalid task ID")
		return
	}

	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req SubmitFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": validator.ParseError(err)})
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Flag)
	if err != nil {
		responses.BadRequest(c, "Flag must be base64-encoded")
		return
	}

	// The submission endpoint verifies team membership independently of the
	// task listing; a player without a team in this competition cannot score.
	if !middleware.IsAdminFromContext(c) {
		inTeam, err := sc.teamRepo.IsUserInCompetitionTeam(uint(compID), userID)
		if err != nil {
			responses.InternalServerError(c, "Membership lookup failed")
			return
		}
		if !inTeam {
			responses.Forbidden(c, "Join or create a team for this competition first")
			return
		}
	}

	accepted, err := sc.repo.SubmitFlag(uint(compID), uint(taskID), userID, string(decoded), c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrTaskNotInCompetition) {
			responses.NotFound(c, "Task")
			return
		}
		responses.InternalServerError(c, "Submission failed")
		return
	}

	if accepted {
		sc.scoreboard.Invalidate(c.Request.Context())
	}

	c.JSON(http.StatusOK, SubmitFlagResponse{Success: accepted})
}

// @Summary      My solved tasks
// @Tags         Submissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse
// @Router       /submissions/mine [get]
func (sc *SubmissionController) GetMySolves(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	ids, err := sc.repo.GetSolvedTaskIDs(userID)
	if err != nil {
		responses.InternalServerError(c, "Submission lookup failed")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"task_ids": ids})
}
