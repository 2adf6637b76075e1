package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"kidquiz-engine/internal/domain"
)

// AnswerStore appends answer records to Redis lists:
//
//	RPUSH session:{sessionID}:answers {json}   — full per-session log
//	RPUSH kid:{kidID}:wrong {json}             — wrong-answer review log
//
// Session logs expire after ttl; the wrong-answer log is kept until the
// parent clears it.
type AnswerStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnswerStore(client *redis.Client, ttl time.Duration) *AnswerStore {
	return &AnswerStore{client: client, ttl: ttl}
}

func (s *AnswerStore) AppendAnswer(ctx context.Context, kidID, sessionID string, answer domain.SubmittedAnswer) error {
	data, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}

	sessionKey := s.sessionKey(sessionID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, sessionKey, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, sessionKey, s.ttl)
	}
	if !answer.Correct {
		pipe.RPush(ctx, s.wrongKey(kidID), data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	return nil
}

// WrongAnswers reads back the kid's wrong-answer log, oldest first.
func (s *AnswerStore) WrongAnswers(ctx context.Context, kidID string) ([]domain.SubmittedAnswer, error) {
	raws, err := s.client.LRange(ctx, s.wrongKey(kidID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read wrong answers: %w", err)
	}
	answers := make([]domain.SubmittedAnswer, 0, len(raws))
	for _, raw := range raws {
		var a domain.SubmittedAnswer
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			continue
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func (s *AnswerStore) sessionKey(sessionID string) string {
	return "session:" + sessionID + ":answers"
}

func (s *AnswerStore) wrongKey(kidID string) string {
	return "kid:" + kidID + ":wrong"
}

// ScoreStore keeps each kid's running point total as a counter:
// INCRBY kid:{kidID}:points {sessionPoints}
type ScoreStore struct {
	client *redis.Client
}

func NewScoreStore(client *redis.Client) *ScoreStore {
	return &ScoreStore{client: client}
}

func (s *ScoreStore) AddSessionResult(ctx context.Context, kidID string, stats domain.SessionStats) error {
	if err := s.client.IncrBy(ctx, s.pointsKey(kidID), int64(stats.TotalPoints)).Err(); err != nil {
		return fmt.Errorf("add session points: %w", err)
	}
	return nil
}

// Points reads the kid's accumulated total. A missing key reads as zero.
func (s *ScoreStore) Points(ctx context.Context, kidID string) (int, error) {
	raw, err := s.client.Get(ctx, s.pointsKey(kidID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read points: %w", err)
	}
	points, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse points: %w", err)
	}
	return points, nil
}

func (s *ScoreStore) pointsKey(kidID string) string {
	return "kid:" + kidID + ":points"
}
