package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fanquiz-service/internal/app"
	"fanquiz-service/internal/domain"
	"fanquiz-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Ledger) {
	t.Helper()
	store := memory.NewDocumentStore()
	store.Seed("quiz-1", domain.Quiz{
		Title: "T",
		Questions: []domain.Question{
			{QuestionText: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1},
			{QuestionText: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
		},
	})
	ledger := memory.NewLedger()
	sessions := app.NewSessionService(store, ledger)
	wsHandler := NewWSHandler(sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, ledger
}

func dial(t *testing.T, server *httptest.Server, quizID, deviceID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?quizId=" + quizID + "&deviceId=" + deviceID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketTakeFlow(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "quiz-1", "device-1")

	msgType, payload := readNext(conn, t, "ready")
	if payload["title"] != "T" || payload["questionCount"] != float64(2) {
		t.Fatalf("unexpected ready payload: %v", payload)
	}

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	msgType, payload = readNext(conn, t, "question")
	if payload["index"] != float64(0) || payload["questionText"] != "Q1" {
		t.Fatalf("unexpected first question: %v", payload)
	}

	writeAnswer(conn, t, 1) // correct
	_, payload = readNext(conn, t, "question")
	if payload["index"] != float64(1) {
		t.Fatalf("expected second question, got %v", payload)
	}

	writeAnswer(conn, t, 2) // wrong
	msgType, payload = readNext(conn, t, "completed")
	if msgType != "completed" || payload["score"] != float64(1) || payload["total"] != float64(2) {
		t.Fatalf("unexpected completion: %v", payload)
	}
}

func TestWebSocketBlocksRetake(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server, "quiz-1", "device-1")
	readNext(conn, t, "ready")
	_ = conn.WriteJSON(map[string]any{"type": "start"})
	readNext(conn, t, "question")
	writeAnswer(conn, t, 1)
	readNext(conn, t, "question")
	writeAnswer(conn, t, 0)
	readNext(conn, t, "completed")
	conn.Close()

	// Same device again: straight to blocked with the stored record.
	again := dial(t, server, "quiz-1", "device-1")
	_, payload := readNext(again, t, "blocked")
	if payload["score"] != float64(2) || payload["total"] != float64(2) || payload["title"] != "T" {
		t.Fatalf("unexpected blocked record: %v", payload)
	}

	// A different device is unaffected.
	other := dial(t, server, "quiz-1", "device-2")
	readNext(other, t, "ready")
}

func TestWebSocketQuizNotFound(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "missing", "device-1")

	_, payload := readNext(conn, t, "error")
	if payload["message"] != "quiz not found" {
		t.Fatalf("expected quiz-not-found message, got %v", payload)
	}
}

func TestWebSocketAnswerBeforeStart(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "quiz-1", "device-1")
	readNext(conn, t, "ready")

	writeAnswer(conn, t, 0)
	msgType, _ := readNext(conn, t, "")
	if msgType != "error" {
		t.Fatalf("expected error for answer before start, got %s", msgType)
	}
}

func writeAnswer(conn *websocket.Conn, t *testing.T, option int) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{
		"type":    "answer",
		"payload": map[string]any{"option": option},
	}); err != nil {
		t.Fatalf("write answer: %v", err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
