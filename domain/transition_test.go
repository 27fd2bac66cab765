package domain

import (
	goerrors "errors"
	"event-lab/errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_CanTransition_Table(t *testing.T) {
	tests := []struct {
		description string
		current     EventStatus
		requested   *EventStatus
		wantErr     bool
	}{
		{"Should allow omitted status", StatusPublished, nil, false},
		{"Should allow DRAFT to DRAFT", StatusDraft, lo.ToPtr(StatusDraft), false},
		{"Should allow PUBLISHED to PUBLISHED", StatusPublished, lo.ToPtr(StatusPublished), false},
		{"Should allow CANCELLED to CANCELLED", StatusCancelled, lo.ToPtr(StatusCancelled), false},
		{"Should allow DRAFT to PUBLISHED", StatusDraft, lo.ToPtr(StatusPublished), false},
		{"Should allow DRAFT to CANCELLED", StatusDraft, lo.ToPtr(StatusCancelled), false},
		{"Should allow PUBLISHED to CANCELLED", StatusPublished, lo.ToPtr(StatusCancelled), false},
		{"Should reject PUBLISHED to DRAFT", StatusPublished, lo.ToPtr(StatusDraft), true},
		{"Should reject CANCELLED to DRAFT", StatusCancelled, lo.ToPtr(StatusDraft), true},
		{"Should reject CANCELLED to PUBLISHED", StatusCancelled, lo.ToPtr(StatusPublished), true},
		{"Should reject unknown status", StatusDraft, lo.ToPtr(EventStatus("ARCHIVED")), true},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)
			err := CanTransition(tt.current, tt.requested)
			if tt.wantErr {
				req.Error(err)
				req.True(goerrors.Is(err, errors.ErrInvalidTransition))
				return
			}
			req.NoError(err)
		})
	}
}

func Test_CanTransition_CarriesReason(t *testing.T) {
	req := require.New(t)
	err := CanTransition(StatusCancelled, lo.ToPtr(StatusPublished))
	req.ErrorContains(err, "CANCELLED events cannot be changed")
}
