package models

import (
	"bytes"
	"encoding/json"
)

type EventType string

const (
	EventPageView      EventType = "page_view"
	EventVideoPlay     EventType = "video_play"
	EventVideoComplete EventType = "video_complete"
	EventQuizStart     EventType = "quiz_start"
	EventQuizSubmit    EventType = "quiz_submit"
)

var eventTypes = map[EventType]bool{
	EventPageView:      true,
	EventVideoPlay:     true,
	EventVideoComplete: true,
	EventQuizStart:     true,
	EventQuizSubmit:    true,
}

func (t EventType) Valid() bool {
	return eventTypes[t]
}

// EngagementEvent is the body posted to the LMS events endpoint.
type EngagementEvent struct {
	EventType      EventType `json:"event_type"`
	EventTimestamp string    `json:"event_timestamp"`
	LMSUserID      ID        `json:"lms_user_id"`
	SessionID      string    `json:"session_id"`
	EventData      EventData `json:"event_data"`
}

// EventData is a denormalized snapshot of the course and activity.
type EventData struct {
	CourseID      ID           `json:"course_id"`
	CourseTitle   string       `json:"course_title"`
	ActivityID    string       `json:"activity_id"`
	ActivityTitle string       `json:"activity_title"`
	ActivityType  ActivityType `json:"activity_type"`
}

// ForwardResult is the LMS answer to an accepted event.
type ForwardResult struct {
	Status                    Text            `json:"status,omitempty"`
	StudentID                 Text            `json:"student_id"`
	ForwardedTo               Text            `json:"forwarded_to"`
	EngagementTrackerResponse json.RawMessage `json:"engagement_tracker_response,omitempty"`
}

// Text is a display string decoded from any JSON value: strings verbatim,
// null as empty, and anything else as its compact JSON.
type Text string

func (t Text) String() string { return string(t) }

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}
