package models

const defaultCourseDescription = "This is a demo course for engagement tracking."

type Course struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func (c Course) DisplayDescription() string {
	if c.Description == "" {
		return defaultCourseDescription
	}
	return c.Description
}

type CourseList struct {
	Courses []Course `json:"courses"`
	Total   int      `json:"total"`
}

type ActivityType string

const (
	ActivityPage  ActivityType = "Page"
	ActivityVideo ActivityType = "Video"
	ActivityQuiz  ActivityType = "Quiz"
)

// Action is a button offered on an activity card.
type Action struct {
	Label     string    `json:"label"`
	EventType EventType `json:"event_type"`
}

// Activity is a client-side learning activity template.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Actions     []Action     `json:"actions"`
}

// AllowedEventTypes lists the event types of the activity's actions, in order.
func (a Activity) AllowedEventTypes() []EventType {
	out := make([]EventType, 0, len(a.Actions))
	for _, action := range a.Actions {
		out = append(out, action.EventType)
	}
	return out
}
