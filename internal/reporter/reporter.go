// Package reporter turns a user action into an engagement event, submits it
// to the LMS once and reports the outcome on a status sink.
//
// Every Report call writes exactly one status line and issues at most one
// request. Failures end at the call boundary: they are returned in the
// Outcome and never retried.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lms-engagement-client/internal/catalog"
	"lms-engagement-client/internal/logger"
	"lms-engagement-client/internal/models"
	"lms-engagement-client/internal/session"
	"lms-engagement-client/internal/status"
)

// TimestampLayout matches JavaScript's Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoSelection      = errors.New("no course or activity selected")
	ErrEventNotAllowed  = errors.New("event type not allowed for activity")
	ErrSubmissionFailed = errors.New("submission failed")
)

const msgNotAuthenticated = "Please login first."

// Submitter sends one event to the collector.
type Submitter interface {
	SubmitEvent(ctx context.Context, event models.EngagementEvent) (*models.ForwardResult, error)
}

type State string

const (
	StateRejected        State = "rejected"
	StateReportedSuccess State = "reported_success"
	StateReportedFailure State = "reported_failure"
)

// Outcome is the terminal state of one Report call. Message is exactly what
// the status sink received.
type Outcome struct {
	State   State
	Message string
	Event   *models.EngagementEvent
	Result  *models.ForwardResult
	Err     error
}

type Reporter struct {
	submitter Submitter
	sink      status.Sink
	log       *logger.Logger
	prefix    string
	now       func() time.Time
	tracer    trace.Tracer
}

type Option func(*Reporter)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

// WithSessionPrefix sets the prefix used to derive session ids.
func WithSessionPrefix(prefix string) Option {
	return func(r *Reporter) { r.prefix = prefix }
}

func New(submitter Submitter, sink status.Sink, log *logger.Logger, opts ...Option) *Reporter {
	r := &Reporter{
		submitter: submitter,
		sink:      sink,
		log:       log,
		prefix:    session.DefaultPrefix,
		now:       time.Now,
		tracer:    otel.Tracer("lms-engagement-client/reporter"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report validates the inputs, builds the event and submits it. The session,
// course and activity are copied on entry so later changes by the caller do
// not affect the event.
func (r *Reporter) Report(ctx context.Context, eventType models.EventType, sess *models.Session, course *models.Course, activity *models.Activity) Outcome {
	ctx, span := r.tracer.Start(ctx, "reporter.Report",
		trace.WithAttributes(attribute.String("event.type", string(eventType))))
	defer span.End()

	if sess == nil {
		return r.reject(ctx, span, "", ErrNotAuthenticated, msgNotAuthenticated)
	}
	snapSession := *sess
	if course == nil || activity == nil {
		return r.reject(ctx, span, snapSession.UserID, ErrNoSelection, "Select a course and an activity first.")
	}
	snapCourse, snapActivity := *course, *activity

	if !catalog.IsAllowed(snapActivity.Type, eventType) {
		msg := fmt.Sprintf("%s is not available for %s activity %q.", eventType, snapActivity.Type, snapActivity.Title)
		return r.reject(ctx, span, snapSession.UserID, ErrEventNotAllowed, msg)
	}

	event := BuildEvent(eventType, r.prefix, snapSession, snapCourse, snapActivity, r.now())
	span.SetAttributes(
		attribute.String("lms.user_id", event.LMSUserID.String()),
		attribute.String("lms.course_id", event.EventData.CourseID.String()),
		attribute.String("lms.activity_id", event.EventData.ActivityID),
	)

	result, err := r.submitter.SubmitEvent(ctx, event)
	if err != nil {
		msg := "Failed to send event: " + err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission failed")
		r.log.Warn("engagement event failed",
			"event_type", eventType,
			"user_id", event.LMSUserID,
			"activity_id", event.EventData.ActivityID,
			"error", err,
		)
		r.sink.Notify(ctx, event.LMSUserID, msg)
		return Outcome{
			State:   StateReportedFailure,
			Message: msg,
			Event:   &event,
			Err:     fmt.Errorf("%w: %w", ErrSubmissionFailed, err),
		}
	}
	if result == nil {
		result = &models.ForwardResult{}
	}

	msg := fmt.Sprintf("Event sent: student_id=%s, forwarded=%s", result.StudentID, result.ForwardedTo)
	r.log.Info("engagement event reported",
		"event_type", eventType,
		"user_id", event.LMSUserID,
		"session_id", event.SessionID,
		"student_id", result.StudentID,
		"forwarded_to", result.ForwardedTo,
	)
	r.sink.Notify(ctx, event.LMSUserID, msg)
	return Outcome{
		State:   StateReportedSuccess,
		Message: msg,
		Event:   &event,
		Result:  result,
	}
}

func (r *Reporter) reject(ctx context.Context, span trace.Span, userID models.ID, err error, msg string) Outcome {
	span.SetStatus(codes.Error, err.Error())
	r.log.Warn("engagement event rejected", "user_id", userID, "reason", err)
	r.sink.Notify(ctx, userID, msg)
	return Outcome{State: StateRejected, Message: msg, Err: err}
}

// BuildEvent assembles the wire event. It is pure: the same inputs always
// give the same event.
func BuildEvent(eventType models.EventType, prefix string, sess models.Session, course models.Course, activity models.Activity, at time.Time) models.EngagementEvent {
	return models.EngagementEvent{
		EventType:      eventType,
		EventTimestamp: at.UTC().Format(TimestampLayout),
		LMSUserID:      sess.UserID,
		SessionID:      session.DeriveID(prefix, sess.UserID),
		EventData: models.EventData{
			CourseID:      course.ID,
			CourseTitle:   course.Title,
			ActivityID:    activity.ID,
			ActivityTitle: activity.Title,
			ActivityType:  activity.Type,
		},
	}
}
