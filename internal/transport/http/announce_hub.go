package http

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"trivia-quiz-service/internal/domain"
)

const announceWriteWait = 5 * time.Second

// AnnounceHub pushes "quizCreated" events to connected websocket clients.
// It implements app.Announcer as an in-app notification channel beside email.
type AnnounceHub struct {
	upgrader websocket.Upgrader
	clock    func() time.Time

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewAnnounceHub() *AnnounceHub {
	return &AnnounceHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clock: time.Now,
		conns: make(map[*websocket.Conn]struct{}),
	}
}

type announceEvent struct {
	Type    string       `json:"type"`
	Payload quizResponse `json:"payload"`
}

// ServeWS upgrades the request and keeps the connection registered until the
// client goes away. Clients only listen; inbound frames are drained and dropped.
func (h *AnnounceHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// AnnounceQuiz broadcasts the new quiz to every connected client. Dead
// connections are dropped; delivery is best effort.
func (h *AnnounceHub) AnnounceQuiz(quiz domain.Quiz) {
	now := h.clock().UTC()
	event := announceEvent{
		Type: "quizCreated",
		Payload: quizResponse{
			QuizID:    quiz.ID,
			Title:     quiz.Title,
			StartDate: quiz.StartDate.Format(dateLayout),
			EndDate:   quiz.EndDate.Format(dateLayout),
			Status:    string(quiz.StatusAt(now)),
		},
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(announceWriteWait))
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("ws announce failed: %v", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
