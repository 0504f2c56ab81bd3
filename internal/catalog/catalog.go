// Package catalog holds the static activity templates and the currently
// selected course.
package catalog

import (
	"errors"
	"sync"

	"lms-engagement-client/internal/models"
)

var ErrCourseNotFound = errors.New("course not found")

// allowedEvents is the only source of the events an activity offers.
var allowedEvents = map[models.ActivityType][]models.EventType{
	models.ActivityPage:  {models.EventPageView},
	models.ActivityVideo: {models.EventVideoPlay, models.EventVideoComplete},
	models.ActivityQuiz:  {models.EventQuizStart, models.EventQuizSubmit},
}

var actionLabels = map[models.EventType]string{
	models.EventPageView:      "Open page",
	models.EventVideoPlay:     "Play video",
	models.EventVideoComplete: "Complete video",
	models.EventQuizStart:     "Start quiz",
	models.EventQuizSubmit:    "Submit quiz",
}

type template struct {
	id          string
	kind        models.ActivityType
	title       string
	description string
}

var templates = []template{
	{"overview-page", models.ActivityPage, "Course overview", "Read the course overview page."},
	{"intro-video", models.ActivityVideo, "Introductory lecture", "Watch the introductory video for this course."},
	{"quiz-1", models.ActivityQuiz, "Quiz 1", "Take a short quiz to test your knowledge."},
}

// AllowedEvents returns the ordered event types for an activity type.
func AllowedEvents(t models.ActivityType) []models.EventType {
	events := allowedEvents[t]
	out := make([]models.EventType, len(events))
	copy(out, events)
	return out
}

func IsAllowed(t models.ActivityType, e models.EventType) bool {
	for _, allowed := range allowedEvents[t] {
		if allowed == e {
			return true
		}
	}
	return false
}

// Templates returns a fresh copy of the activities every course shows.
func Templates() []models.Activity {
	out := make([]models.Activity, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, build(tpl))
	}
	return out
}

// Activity looks up a template by id.
func Activity(id string) (models.Activity, bool) {
	for _, tpl := range templates {
		if tpl.id == id {
			return build(tpl), true
		}
	}
	return models.Activity{}, false
}

func build(tpl template) models.Activity {
	events := allowedEvents[tpl.kind]
	actions := make([]models.Action, 0, len(events))
	for _, e := range events {
		actions = append(actions, models.Action{Label: actionLabels[e], EventType: e})
	}
	return models.Activity{
		ID:          tpl.id,
		Type:        tpl.kind,
		Title:       tpl.title,
		Description: tpl.description,
		Actions:     actions,
	}
}

// Catalog is the loaded course list plus the single active selection.
// Only the course-selection flow writes it; readers get value copies.
type Catalog struct {
	mu      sync.RWMutex
	courses []models.Course
	active  *models.Course
}

func New() *Catalog {
	return &Catalog{}
}

// SetCourses replaces the course list. When nothing is selected yet the
// first course becomes active. It reports whether a selection was made.
func (c *Catalog) SetCourses(courses []models.Course) (models.Course, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.courses = append([]models.Course(nil), courses...)
	if c.active == nil && len(c.courses) > 0 {
		first := c.courses[0]
		c.active = &first
		return first, true
	}
	return models.Course{}, false
}

// Select replaces the active course in one step.
func (c *Catalog) Select(id models.ID) (models.Course, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, course := range c.courses {
		if course.ID == id {
			selected := course
			c.active = &selected
			return selected, nil
		}
	}
	return models.Course{}, ErrCourseNotFound
}

func (c *Catalog) Selection() (models.Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == nil {
		return models.Course{}, false
	}
	return *c.active, true
}

// Clear drops the course list and the selection.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses = nil
	c.active = nil
}
