package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"lms-engagement-client/internal/catalog"
	"lms-engagement-client/internal/models"
	"lms-engagement-client/internal/reporter"
	"lms-engagement-client/internal/session"
)

type EventReporter interface {
	Report(ctx context.Context, eventType models.EventType, sess *models.Session, course *models.Course, activity *models.Activity) reporter.Outcome
}

type EventHandler struct {
	reporter EventReporter
	sessions *session.Store
	catalog  *catalog.Catalog
}

func NewEventHandler(r EventReporter, sessions *session.Store, cat *catalog.Catalog) *EventHandler {
	return &EventHandler{reporter: r, sessions: sessions, catalog: cat}
}

type sendEventRequest struct {
	ActivityID string           `json:"activity_id"`
	EventType  models.EventType `json:"event_type"`
}

type outcomeResponse struct {
	State       reporter.State          `json:"state"`
	Message     string                  `json:"message"`
	StudentID   string                  `json:"student_id,omitempty"`
	ForwardedTo string                  `json:"forwarded_to,omitempty"`
	Event       *models.EngagementEvent `json:"event,omitempty"`
	Error       string                  `json:"error,omitempty"`
}

// Send reports one user action. Report outcomes, including rejections and
// failed submissions, are answered with 200: they end at the report call.
func (h *EventHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if !req.EventType.Valid() {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"event_type": "Unknown event type"}, r))
		return
	}
	activity, ok := catalog.Activity(req.ActivityID)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"activity_id": "Unknown activity"}, r))
		return
	}

	var sessPtr *models.Session
	if sess, ok := h.sessions.Current(); ok {
		sessPtr = &sess
	}
	var coursePtr *models.Course
	if course, ok := h.catalog.Selection(); ok {
		coursePtr = &course
	}

	out := h.reporter.Report(r.Context(), req.EventType, sessPtr, coursePtr, &activity)

	resp := outcomeResponse{State: out.State, Message: out.Message, Event: out.Event}
	if out.Result != nil {
		resp.StudentID = out.Result.StudentID.String()
		resp.ForwardedTo = out.Result.ForwardedTo.String()
	}
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
