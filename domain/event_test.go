package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Upcoming_DependsOnNowAndStatus(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	e := Event{StartAt: now.Add(2 * time.Hour), Status: StatusPublished}

	req.True(e.Upcoming(now))
	req.False(e.Upcoming(now.Add(3*time.Hour)), "past events are never upcoming")

	e.Status = StatusCancelled
	req.False(e.Upcoming(now), "cancelled events are never upcoming")
}

func Test_Public_OmitsAdminFields(t *testing.T) {
	req := require.New(t)
	e := Event{
		ID:            uuid.New(),
		Title:         "Launch party",
		Location:      "Berlin",
		Status:        StatusPublished,
		InternalNotes: "vip list attached",
		CreatedBy:     "admin",
	}

	public := e.Public()
	req.Equal(e.ID, public.ID)
	req.Equal(e.Title, public.Title)
	req.Equal(e.Location, public.Location)
	req.Equal(e.Status, public.Status)
}

func Test_StatusVisibility(t *testing.T) {
	req := require.New(t)
	req.False(StatusDraft.Public())
	req.True(StatusPublished.Public())
	req.True(StatusCancelled.Public())
}
