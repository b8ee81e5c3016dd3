package team

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ctfboard/internal/middleware"
	"ctfboard/pkg/responses"
	"ctfboard/pkg/validator"

	"github.com/gin-gonic/gin"
)

// TeamController handles team signup within a competition.
type TeamController struct {
	repo TeamRepository
}

func NewTeamController(repo TeamRepository) *TeamController {
	return &TeamController{repo: repo}
}

// TeamSignupRequest either creates a new team (mode "create", name required)
// or joins an existing one by secret (mode "join").
type TeamSignupRequest struct {
	Mode   string `json:"mode" binding:"required,oneof=create join"`
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

func competitionIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid competition ID")
		return 0, false
	}
	return uint(id), true
}

// @Summary      Create or join a team
// @Description  Sign the authenticated user into a team for the competition.
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                true  "Competition ID"
// @Param        request  body  TeamSignupRequest  true  "Signup details"
// @Success      201  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse "Unknown join secret"
// @Failure      409  {object}  responses.ErrorResponse "Team full or user already in a team"
// @Router       /competitions/{id}/team [post]
func (tc *TeamController) Signup(c *gin.Context) {
	compID, ok := competitionIDParam(c)
	if !ok {
		return
	}

	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req TeamSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": validator.ParseError(err)})
		return
	}

	var result *Team
	switch req.Mode {
	case "create":
		name := strings.TrimSpace(req.Name)
		if name == "" {
			responses.BadRequest(c, "Team name must not be empty")
			return
		}
		result, err = tc.repo.CreateTeam(compID, userID, name)
	case "join":
		if req.Secret == "" {
			responses.BadRequest(c, "Join secret must not be empty")
			return
		}
		result, err = tc.repo.JoinTeam(compID, userID, req.Secret)
	}

	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownSecret):
			responses.NotFound(c, "Team")
		case errors.Is(err, ErrTeamFull):
			responses.Conflict(c, ErrTeamFull.Error())
		case errors.Is(err, ErrAlreadyInTeam):
			responses.Conflict(c, ErrAlreadyInTeam.Error())
		default:
			responses.InternalServerError(c, "Team signup failed")
		}
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Team signup successful", gin.H{
		"id":             result.ID,
		"name":           result.Name,
		"competition_id": result.CompetitionID,
		"secret":         result.Secret,
	})
}

// @Summary      My team in a competition
// @Tags         Teams
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Competition ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse "No team in this competition"
// @Router       /competitions/{id}/team [get]
func (tc *TeamController) GetMyTeam(c *gin.Context) {
	compID, ok := competitionIDParam(c)
	if !ok {
		return
	}

	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	t, err := tc.repo.GetTeamForUser(compID, userID)
	if err != nil {
		responses.InternalServerError(c, "Team lookup failed")
		return
	}
	if t == nil {
		responses.NotFound(c, "Team")
		return
	}

	members, err := tc.repo.GetTeamMembers(t.ID)
	if err != nil {
		responses.InternalServerError(c, "Team lookup failed")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "", gin.H{
		"id":             t.ID,
		"name":           t.Name,
		"competition_id": t.CompetitionID,
		"secret":         t.Secret,
		"members":        members,
	})
}
