package delivery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/essay_bot/internal/sessions"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
)

// sessionView: сессия плюс давность последнего изменения для админки
type sessionView struct {
	sessions.Session
	UpdatedAgo string `json:"updated_ago,omitempty"`
}

type SessionHandler struct {
	store sessions.Store
	log   *logger.ZapLogger
}

func NewSessionHandler(store sessions.Store, log *logger.ZapLogger) *SessionHandler {
	return &SessionHandler{store: store, log: log}
}

// GET /sessions/{telegram_id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tid, ok := telegramIDParam(w, r)
	if !ok {
		return
	}

	sess, err := h.store.Get(r.Context(), tid)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "get session failed", Error: err})
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	view := sessionView{Session: sess}
	if !sess.UpdatedAt.IsZero() {
		view.UpdatedAgo = humanize.Time(sess.UpdatedAt)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}

// DELETE /sessions/{telegram_id}: сброс в Idle
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	tid, ok := telegramIDParam(w, r)
	if !ok {
		return
	}

	if err := h.store.Clear(r.Context(), tid); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "reset session failed", Error: err})
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func telegramIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	tid, err := strconv.ParseInt(chi.URLParam(r, "telegram_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid telegram_id", http.StatusBadRequest)
		return 0, false
	}
	return tid, true
}
