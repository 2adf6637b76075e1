package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"kidquiz-engine/internal/app"
	"kidquiz-engine/internal/domain"
	"kidquiz-engine/internal/engine"
	"kidquiz-engine/internal/infra/memory"
)

func TestWebSocketSessionFlow(t *testing.T) {
	packages := memory.NewPackageRepository(memory.NewStaticPackageLoader(samplePackages()), time.Minute)
	answers := memory.NewAnswerStore()
	scores := memory.NewScoreStore()
	service := app.NewSessionService(packages, answers, scores, engine.Config{
		CorrectDelay:     20 * time.Millisecond,
		WrongDelay:       20 * time.Millisecond,
		CelebrationTime:  20 * time.Millisecond,
		SummaryAutoClose: 100 * time.Millisecond,
	})
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?kidId=kid-1&packages=p1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the first question.
	msg := readNext(conn, t, "question")
	if msg.Question == nil || msg.Question.ID != "q1" {
		t.Fatalf("expected q1, got %+v", msg)
	}
	for _, opt := range msg.Question.Options {
		if opt.Correct {
			t.Fatalf("answer key must not leak to the client: %+v", msg.Question)
		}
	}

	// Answer correctly.
	answer := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"optionId": "o2"},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	// Expect feedback, then (perfect single-question session) celebration
	// and summary, skipping countdown ticks along the way.
	feedbackSeen := false
	summarySeen := false
	for i := 0; i < 10; i++ {
		msg := readNext(conn, t, "")
		switch msg.Type {
		case app.CommandFeedback:
			feedbackSeen = true
			if !msg.Feedback.Correct {
				t.Fatalf("expected correct feedback, got %+v", msg.Feedback)
			}
		case app.CommandSummary:
			summarySeen = true
			if msg.Stats.CorrectCount != 1 || !msg.Stats.Perfect {
				t.Fatalf("expected perfect 1/1 summary, got %+v", msg.Stats)
			}
		}
		if feedbackSeen && summarySeen {
			break
		}
	}
	if !feedbackSeen || !summarySeen {
		t.Fatalf("expected feedback and summary, got feedback=%v summary=%v", feedbackSeen, summarySeen)
	}

	if got := scores.Points("kid-1"); got != 1 {
		t.Fatalf("expected 1 point persisted, got %d", got)
	}
}

func TestWebSocketRejectsMissingParams(t *testing.T) {
	service := app.NewSessionService(
		memory.NewPackageRepository(memory.NewStaticPackageLoader(nil), time.Minute),
		memory.NewAnswerStore(), memory.NewScoreStore(), engine.Config{})
	wsHandler := NewWSHandler(service)

	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without params, got %d", resp.StatusCode)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect app.CommandType) app.Command {
	t.Helper()
	var msg app.Command
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg
}

func samplePackages() map[string]domain.PackageQuestions {
	return map[string]domain.PackageQuestions{
		"p1": {
			Package: domain.Package{ID: "p1", Name: "Math basics", Order: domain.OrderSequential},
			Questions: []domain.Question{
				{
					ID:           "q1",
					Prompt:       "What is 2 + 2?",
					Points:       1,
					TimeLimitSec: 10,
					PackageID:    "p1",
					Options: []domain.Option{
						{ID: "o1", Text: "3", Correct: false},
						{ID: "o2", Text: "4", Correct: true},
						{ID: "o3", Text: "5", Correct: false},
					},
				},
			},
		},
	}
}
