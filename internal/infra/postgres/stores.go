package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"kidquiz-engine/internal/domain"
)

// AnswerStore persists answer records in the answers table.
type AnswerStore struct {
	pool *pgxpool.Pool
}

func NewAnswerStore(pool *pgxpool.Pool) *AnswerStore {
	return &AnswerStore{pool: pool}
}

func (s *AnswerStore) AppendAnswer(ctx context.Context, kidID, sessionID string, answer domain.SubmittedAnswer) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO answers (kid_id, session_id, question_id, option_id, correct, points_earned, answered_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`,
		kidID, sessionID, answer.QuestionID, answer.OptionID, answer.Correct, answer.PointsEarned, answer.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	return nil
}

// WrongAnswers reads back a kid's wrong answers, oldest first.
func (s *AnswerStore) WrongAnswers(ctx context.Context, kidID string) ([]domain.SubmittedAnswer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT question_id, COALESCE(option_id, ''), correct, points_earned, answered_at
		 FROM answers WHERE kid_id=$1 AND NOT correct ORDER BY answered_at`,
		kidID,
	)
	if err != nil {
		return nil, fmt.Errorf("read wrong answers: %w", err)
	}
	defer rows.Close()

	var answers []domain.SubmittedAnswer
	for rows.Next() {
		var a domain.SubmittedAnswer
		if err := rows.Scan(&a.QuestionID, &a.OptionID, &a.Correct, &a.PointsEarned, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ScoreStore maintains each kid's running point total in the kids table.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) AddSessionResult(ctx context.Context, kidID string, stats domain.SessionStats) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE kids SET points = points + $2 WHERE id=$1`,
		kidID, stats.TotalPoints,
	)
	if err != nil {
		return fmt.Errorf("add session points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrKidNotFound
	}
	return nil
}

// Points reads the kid's accumulated total.
func (s *ScoreStore) Points(ctx context.Context, kidID string) (int, error) {
	var points int
	err := s.pool.QueryRow(ctx, `SELECT points FROM kids WHERE id=$1`, kidID).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("read points: %w", err)
	}
	return points, nil
}
