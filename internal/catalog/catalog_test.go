package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-engagement-client/internal/models"
)

func TestAllowedEvents(t *testing.T) {
	assert.Equal(t, []models.EventType{models.EventPageView}, AllowedEvents(models.ActivityPage))
	assert.Equal(t, []models.EventType{models.EventVideoPlay, models.EventVideoComplete}, AllowedEvents(models.ActivityVideo))
	assert.Equal(t, []models.EventType{models.EventQuizStart, models.EventQuizSubmit}, AllowedEvents(models.ActivityQuiz))
	assert.Empty(t, AllowedEvents(models.ActivityType("Forum")))
}

func TestAllowedEventsReturnsCopy(t *testing.T) {
	events := AllowedEvents(models.ActivityVideo)
	events[0] = models.EventQuizSubmit
	assert.Equal(t, models.EventVideoPlay, AllowedEvents(models.ActivityVideo)[0])
}

func TestIsAllowed(t *testing.T) {
	assert.True(t, IsAllowed(models.ActivityQuiz, models.EventQuizSubmit))
	assert.False(t, IsAllowed(models.ActivityQuiz, models.EventVideoPlay))
	assert.False(t, IsAllowed(models.ActivityPage, models.EventQuizStart))
}

func TestTemplatesOfferExactlyTheAllowedSet(t *testing.T) {
	activities := Templates()
	require.Len(t, activities, 3)

	for _, activity := range activities {
		assert.Equal(t, AllowedEvents(activity.Type), activity.AllowedEventTypes(), activity.ID)
		for _, action := range activity.Actions {
			assert.NotEmpty(t, action.Label)
		}
	}
}

func TestActivityLookup(t *testing.T) {
	video, ok := Activity("intro-video")
	require.True(t, ok)
	assert.Equal(t, models.ActivityVideo, video.Type)
	assert.Equal(t, "Introductory lecture", video.Title)

	_, ok = Activity("missing")
	assert.False(t, ok)
}

func TestSetCoursesAutoSelectsFirst(t *testing.T) {
	c := New()
	_, ok := c.Selection()
	assert.False(t, ok)

	selected, changed := c.SetCourses([]models.Course{{ID: "c1", Title: "Intro"}, {ID: "c2", Title: "Advanced"}})
	assert.True(t, changed)
	assert.Equal(t, models.ID("c1"), selected.ID)

	_, changed = c.SetCourses([]models.Course{{ID: "c2", Title: "Advanced"}})
	assert.False(t, changed, "existing selection is kept")
	active, _ := c.Selection()
	assert.Equal(t, models.ID("c1"), active.ID)
}

func TestSelectReplacesSelection(t *testing.T) {
	c := New()
	c.SetCourses([]models.Course{{ID: "c1", Title: "Intro"}, {ID: "c2", Title: "Advanced"}})

	course, err := c.Select("c2")
	require.NoError(t, err)
	assert.Equal(t, "Advanced", course.Title)

	active, ok := c.Selection()
	require.True(t, ok)
	assert.Equal(t, models.ID("c2"), active.ID)

	_, err = c.Select("nope")
	assert.ErrorIs(t, err, ErrCourseNotFound)
	active, _ = c.Selection()
	assert.Equal(t, models.ID("c2"), active.ID, "failed select leaves selection untouched")
}

func TestSelectionIsSnapshot(t *testing.T) {
	c := New()
	c.SetCourses([]models.Course{{ID: "c1", Title: "Intro"}})

	snapshot, _ := c.Selection()
	snapshot.Title = "mutated"

	active, _ := c.Selection()
	assert.Equal(t, "Intro", active.Title)
}

func TestConcurrentSelectNeverMixesCourses(t *testing.T) {
	c := New()
	c.SetCourses([]models.Course{{ID: "c1", Title: "Intro"}, {ID: "c2", Title: "Advanced"}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Select("c2")
		}()
		go func() {
			defer wg.Done()
			active, _ := c.Selection()
			switch active.ID {
			case "c1":
				assert.Equal(t, "Intro", active.Title)
			case "c2":
				assert.Equal(t, "Advanced", active.Title)
			}
		}()
	}
	wg.Wait()
}

func TestClear(t *testing.T) {
	c := New()
	c.SetCourses([]models.Course{{ID: "c1", Title: "Intro"}})
	c.Clear()

	_, ok := c.Selection()
	assert.False(t, ok)
	_, err := c.Select("c1")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}
