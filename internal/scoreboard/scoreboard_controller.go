package scoreboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ctfboard/pkg/cache"
	"ctfboard/pkg/responses"

	"github.com/gin-gonic/gin"
)

type ScoreboardController struct {
	repo  ScoreboardRepository
	cache *cache.ScoreboardCache
}

func NewScoreboardController(repo ScoreboardRepository, scoreboardCache *cache.ScoreboardCache) *ScoreboardController {
	return &ScoreboardController{repo: repo, cache: scoreboardCache}
}

// @Summary      Global scoreboard
// @Description  Ranks all visible users by total score, earliest-finisher tiebreak.
// @Tags         Scoreboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=[]ScoreboardRow}
// @Router       /scoreboard [get]
func (sc *ScoreboardController) GetScoreboard(c *gin.Context) {
	sc.serve(c, cache.GlobalKey(), sc.repo.GetStandings)
}

// @Summary      Competition scoreboard
// @Tags         Scoreboard
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Competition ID"
// @Success      200  {object}  responses.SuccessResponse{data=[]ScoreboardRow}
// @Router       /competitions/{id}/scoreboard [get]
func (sc *ScoreboardController) GetCompetitionScoreboard(c *gin.Context) {
	compID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || compID == 0 {
		responses.BadRequest(c, "Invalid competition ID")
		return
	}
	sc.serve(c, cache.CompetitionKey(uint(compID)), func() ([]ScoreboardRow, error) {
		return sc.repo.GetCompetitionStandings(uint(compID))
	})
}

// serve answers from the cache when it holds a fresh copy, otherwise runs the
// aggregation and stores the rendered response body under key.
func (sc *ScoreboardController) serve(c *gin.Context, key string, fetch func() ([]ScoreboardRow, error)) {
	ctx := c.Request.Context()
	if payload, ok := sc.cache.Get(ctx, key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	rows, err := fetch()
	if err != nil {
		responses.InternalServerError(c, "Scoreboard query failed")
		return
	}

	resp := responses.SuccessResponse{
		Status:  "success",
		Message: "Operation completed successfully",
		Data:    gin.H{"standings": rows},
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		responses.InternalServerError(c, "Scoreboard encoding failed")
		return
	}

	sc.cache.Set(ctx, key, payload)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
