package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lms-engagement-client/internal/catalog"
	"lms-engagement-client/internal/models"
	"lms-engagement-client/internal/session"
	"lms-engagement-client/internal/status"
)

type CourseHandler struct {
	lms      LMSClient
	sessions *session.Store
	catalog  *catalog.Catalog
	sink     status.Sink
}

func NewCourseHandler(lms LMSClient, sessions *session.Store, cat *catalog.Catalog, sink status.Sink) *CourseHandler {
	return &CourseHandler{lms: lms, sessions: sessions, catalog: cat, sink: sink}
}

type courseView struct {
	Course      models.Course     `json:"course"`
	Description string            `json:"description"`
	Activities  []models.Activity `json:"activities"`
}

func newCourseView(c models.Course) courseView {
	return courseView{Course: c, Description: c.DisplayDescription(), Activities: catalog.Templates()}
}

// List loads courses from the LMS and selects the first one when nothing is
// selected yet.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Current()
	if !ok {
		h.sink.Notify(r.Context(), "", "Please login first.")
		writeJSON(w, http.StatusUnauthorized, errorResp("NOT_AUTHENTICATED", "Please login first.", r))
		return
	}

	courses, err := h.lms.ListCourses(r.Context())
	if err != nil {
		h.sink.Notify(r.Context(), sess.UserID, "Failed to load courses: "+err.Error())
		writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", "Failed to load courses: "+err.Error(), r))
		return
	}

	h.catalog.SetCourses(courses)
	resp := map[string]interface{}{
		"courses": courses,
		"total":   len(courses),
	}
	if active, ok := h.catalog.Selection(); ok {
		resp["active"] = newCourseView(active)
	}

	h.sink.Notify(r.Context(), sess.UserID, "Courses loaded.")
	writeJSON(w, http.StatusOK, resp)
}

func (h *CourseHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	course, err := h.catalog.Select(id)
	if err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", fmt.Sprintf("Course %s not found", id), r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to select course", r))
		return
	}

	sess, _ := h.sessions.Current()
	h.sink.Notify(r.Context(), sess.UserID, fmt.Sprintf("Selected course %s. Use activity buttons to send events.", course.Title))
	writeJSON(w, http.StatusOK, newCourseView(course))
}

func (h *CourseHandler) Activities(w http.ResponseWriter, r *http.Request) {
	course, ok := h.catalog.Selection()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NO_SELECTION", "No course selected", r))
		return
	}
	writeJSON(w, http.StatusOK, newCourseView(course))
}
