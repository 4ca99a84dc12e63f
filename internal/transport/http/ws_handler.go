package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fanquiz-service/internal/app"
	"fanquiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler runs the quiz-taking session over a websocket: one connection is
// one attempt. All events for a session are processed sequentially on the
// read loop, so state transitions never interleave.
type WSHandler struct {
	sessions *app.SessionService
	upgrader websocket.Upgrader
}

func NewWSHandler(sessions *app.SessionService) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type readyPayload struct {
	Title         string `json:"title"`
	QuestionCount int    `json:"questionCount"`
}

type questionPayload struct {
	Index        int      `json:"index"`
	Total        int      `json:"total"`
	QuestionText string   `json:"questionText"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Options      []string `json:"options"`
}

type completedPayload struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// ServeWS upgrades the request and drives one quiz attempt.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	deviceID := r.URL.Query().Get("deviceId")
	if quizID == "" || deviceID == "" {
		http.Error(w, "missing quizId or deviceId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	session, err := h.sessions.Load(r.Context(), quizID, deviceID)
	if err != nil {
		// Load only errs when the connection context died mid-fetch.
		return
	}

	switch session.State() {
	case app.StateError:
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: userMessage(session.Err())}})
		return
	case app.StateBlocked:
		record, _ := session.BlockedRecord()
		_ = conn.WriteJSON(outboundMessage[domain.CompletionRecord]{Type: "blocked", Payload: record})
		return
	}

	quiz := session.Quiz()
	if err := conn.WriteJSON(outboundMessage[readyPayload]{Type: "ready", Payload: readyPayload{
		Title:         quiz.Title,
		QuestionCount: len(quiz.Questions),
	}}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "start":
			if err := session.Start(); err != nil {
				h.writeError(conn, err)
				continue
			}
			h.writeQuestion(conn, session)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			if err := session.Answer(r.Context(), payload.Option); err != nil {
				h.writeError(conn, err)
				continue
			}
			if session.State() == app.StateCompleted {
				_ = conn.WriteJSON(outboundMessage[completedPayload]{Type: "completed", Payload: completedPayload{
					Score: session.Score(),
					Total: len(quiz.Questions),
				}})
				continue
			}
			h.writeQuestion(conn, session)
		default:
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}
}

func (h *WSHandler) writeQuestion(conn *websocket.Conn, session *app.Session) {
	index, question, err := session.CurrentQuestion()
	if err != nil {
		h.writeError(conn, err)
		return
	}
	// correctAnswer stays server-side until the report.
	_ = conn.WriteJSON(outboundMessage[questionPayload]{Type: "question", Payload: questionPayload{
		Index:        index,
		Total:        len(session.Quiz().Questions),
		QuestionText: question.QuestionText,
		ImageURL:     question.ImageURL,
		Options:      question.Options,
	}})
}

func (h *WSHandler) writeError(conn *websocket.Conn, err error) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: userMessage(err)}})
}

// userMessage keeps internal detail out of client-facing errors while still
// distinguishing "check the link" from "try again".
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		return "quiz not found"
	case errors.Is(err, domain.ErrInvalidState):
		return err.Error()
	default:
		return "something went wrong"
	}
}
