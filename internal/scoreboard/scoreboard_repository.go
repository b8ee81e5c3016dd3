package scoreboard

import (
	"gorm.io/gorm"
)

// ScoreboardRow is one standing. Score is the sum of accepted submission
// scores as they were captured at submission time, not the tasks' current
// scores. LastSubmit is the millisecond timestamp of the latest accepted
// submission and breaks score ties in favour of the earlier finisher.
type ScoreboardRow struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	Score      int    `json:"score"`
	LastSubmit int64  `json:"last_submit"`
}

type ScoreboardRepository interface {
	GetStandings() ([]ScoreboardRow, error)
	GetCompetitionStandings(competitionID uint) ([]ScoreboardRow, error)
}

type scoreboardRepository struct {
	db *gorm.DB
}

func NewScoreboardRepository(db *gorm.DB) ScoreboardRepository {
	return &scoreboardRepository{db: db}
}

// GetStandings ranks every visible user across all competitions. Users with
// no accepted submissions appear with a zero score; hidden users never do.
func (r *scoreboardRepository) GetStandings() ([]ScoreboardRow, error) {
	var rows []ScoreboardRow
	err := r.db.Raw(`
		SELECT u.id AS user_id,
		       u.username AS username,
		       COALESCE(SUM(f.score), 0) AS score,
		       COALESCE(MAX(f.timestamp), 0) AS last_submit
		FROM users u
		LEFT JOIN flag_submissions f ON f.user_id = u.id
		WHERE u.is_hidden = ? AND u.deleted_at IS NULL
		GROUP BY u.id, u.username
		ORDER BY score DESC, last_submit ASC`, false).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ScoreboardRow{}
	}
	return rows, nil
}

// GetCompetitionStandings restricts the ranking to submissions for tasks
// currently bound to the competition. The join condition, not a WHERE clause,
// carries the restriction so that zero-score users keep their rows.
func (r *scoreboardRepository) GetCompetitionStandings(competitionID uint) ([]ScoreboardRow, error) {
	var rows []ScoreboardRow
	err := r.db.Raw(`
		SELECT u.id AS user_id,
		       u.username AS username,
		       COALESCE(SUM(f.score), 0) AS score,
		       COALESCE(MAX(f.timestamp), 0) AS last_submit
		FROM users u
		LEFT JOIN flag_submissions f ON f.user_id = u.id
		     AND f.task_id IN (SELECT task_id FROM competition_tasks WHERE competition_id = ?)
		WHERE u.is_hidden = ? AND u.deleted_at IS NULL
		GROUP BY u.id, u.username
		ORDER BY score DESC, last_submit ASC`, competitionID, false).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ScoreboardRow{}
	}
	return rows, nil
}
