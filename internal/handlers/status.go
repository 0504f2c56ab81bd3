package handlers

import (
	"net/http"

	"lms-engagement-client/internal/status"
)

type StatusHandler struct {
	board *status.Board
}

func NewStatusHandler(board *status.Board) *StatusHandler {
	return &StatusHandler{board: board}
}

// Latest returns the most recent status line, or an empty one.
func (h *StatusHandler) Latest(w http.ResponseWriter, r *http.Request) {
	line, ok := h.board.Latest()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"line": ""})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"line":    line.String(),
		"message": line.Message,
		"at":      line.At,
	})
}
