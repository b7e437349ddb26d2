package usecases_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
	"leadflow.backend/internal/usecases"
)

func TestApplyTransition_ContactedSchedulesFollowUpThenWonClears(t *testing.T) {
	created := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	lead := &entities.Lead{ID: uuid.New(), Status: entities.LeadStatusNew, CreatedAt: created, UpdatedAt: created}
	T := created.Add(48 * time.Hour)

	contacted, err := usecases.ApplyTransition(lead, entities.LeadStatusContacted, T, usecases.DefaultTransitionOptions())
	require.NoError(t, err)
	assert.True(t, contacted.FollowUpDate.Valid)
	assert.Equal(t, T.Add(7*24*time.Hour), contacted.FollowUpDate.Time)
	assert.Equal(t, T, contacted.UpdatedAt)
	assert.Equal(t, entities.LeadStatusNew, lead.Status, "input must not be mutated")

	won, err := usecases.ApplyTransition(contacted, entities.LeadStatusWon, T.Add(time.Hour), usecases.DefaultTransitionOptions())
	require.NoError(t, err)
	assert.False(t, won.FollowUpDate.Valid)
	assert.Equal(t, entities.LeadStatusWon, won.Status)
}

func TestApplyTransition_PropertyOverAllStatuses(t *testing.T) {
	f := gofakeit.New(42)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	opts := usecases.DefaultTransitionOptions()

	for _, lead := range fakeLeads(f, 200, fakeMembers(3), now) {
		for _, target := range entities.LeadStatuses {
			if target == lead.Status {
				continue
			}
			got, err := usecases.ApplyTransition(lead, target, now, opts)
			require.NoError(t, err)
			if target == entities.LeadStatusContacted {
				require.True(t, got.FollowUpDate.Valid)
				require.Equal(t, now.Add(7*24*time.Hour), got.FollowUpDate.Time)
			} else {
				require.False(t, got.FollowUpDate.Valid)
			}
			require.True(t, got.UpdatedAt.After(lead.UpdatedAt), "updatedAt must strictly increase")
			require.False(t, got.UpdatedAt.Before(got.CreatedAt))
		}
	}
}

func TestApplyTransition_UpdatedAtIncreasesWhenClockStalls(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	lead := &entities.Lead{Status: entities.LeadStatusNew, CreatedAt: now, UpdatedAt: now.Add(time.Minute)}

	got, err := usecases.ApplyTransition(lead, entities.LeadStatusQualified, now, usecases.DefaultTransitionOptions())
	require.NoError(t, err)
	assert.Equal(t, lead.UpdatedAt.Add(time.Nanosecond), got.UpdatedAt)
}

func TestApplyTransition_KeepFollowUpVariant(t *testing.T) {
	now := time.Now()
	lead := &entities.Lead{Status: entities.LeadStatusContacted, UpdatedAt: now.Add(-time.Hour)}
	lead.FollowUpDate.SetValid(now.Add(24 * time.Hour))

	opts := usecases.DefaultTransitionOptions()
	opts.ClearFollowUpOnExit = false
	got, err := usecases.ApplyTransition(lead, entities.LeadStatusQualified, now, opts)
	require.NoError(t, err)
	assert.True(t, got.FollowUpDate.Valid)
	assert.Equal(t, lead.FollowUpDate.Time, got.FollowUpDate.Time)
}

func TestApplyTransition_Rejections(t *testing.T) {
	now := time.Now()
	lead := &entities.Lead{Status: entities.LeadStatusContacted}

	_, err := usecases.ApplyTransition(lead, entities.LeadStatusContacted, now, usecases.DefaultTransitionOptions())
	require.ErrorIs(t, err, domainerrors.ErrNoOpTransition)

	_, err = usecases.ApplyTransition(lead, entities.LeadStatus("Archived"), now, usecases.DefaultTransitionOptions())
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "status")

	opts := usecases.DefaultTransitionOptions()
	opts.Policy = usecases.SequentialPolicy{}
	_, err = usecases.ApplyTransition(lead, entities.LeadStatusWon, now, opts)
	require.ErrorIs(t, err, domainerrors.ErrTransitionDenied)
}

func TestSequentialPolicy(t *testing.T) {
	p := usecases.NewTransitionPolicy("Sequential")
	assert.IsType(t, usecases.SequentialPolicy{}, p)

	assert.True(t, p.Allow(entities.LeadStatusNew, entities.LeadStatusContacted))
	assert.True(t, p.Allow(entities.LeadStatusContacted, entities.LeadStatusQualified))
	assert.True(t, p.Allow(entities.LeadStatusQualified, entities.LeadStatusWon))
	assert.True(t, p.Allow(entities.LeadStatusQualified, entities.LeadStatusLost))
	assert.True(t, p.Allow(entities.LeadStatusLost, entities.LeadStatusNew))
	assert.False(t, p.Allow(entities.LeadStatusNew, entities.LeadStatusWon))
	assert.False(t, p.Allow(entities.LeadStatusWon, entities.LeadStatusLost))

	assert.IsType(t, usecases.PermitAllPolicy{}, usecases.NewTransitionPolicy(""))
	assert.True(t, usecases.PermitAllPolicy{}.Allow(entities.LeadStatusWon, entities.LeadStatusNew))
}

func TestApplyAssignment(t *testing.T) {
	now := time.Now()
	owner := uuid.New()
	lead := &entities.Lead{Status: entities.LeadStatusQualified, UpdatedAt: now.Add(-time.Hour)}
	lead.FollowUpDate.SetValid(now)

	got, changed := usecases.ApplyAssignment(lead, &owner, now)
	require.True(t, changed)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, owner, *got.AssignedTo)
	assert.Equal(t, now, got.UpdatedAt)
	assert.Equal(t, lead.Status, got.Status)
	assert.Equal(t, lead.FollowUpDate, got.FollowUpDate)

	_, changed = usecases.ApplyAssignment(got, &owner, now.Add(time.Second))
	assert.False(t, changed)

	nilID := uuid.Nil
	_, changed = usecases.ApplyAssignment(lead, &nilID, now)
	assert.False(t, changed, "nil uuid means unassigned")

	cleared, changed := usecases.ApplyAssignment(got, nil, now.Add(time.Second))
	assert.True(t, changed)
	assert.Nil(t, cleared.AssignedTo)
}
