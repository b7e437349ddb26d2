package usecases

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
)

const DefaultFollowUpWindow = 7 * 24 * time.Hour

// TransitionPolicy decides which status changes are allowed.
type TransitionPolicy interface {
	Allow(from, to entities.LeadStatus) bool
}

// PermitAllPolicy allows any status to move to any other status.
type PermitAllPolicy struct{}

func (PermitAllPolicy) Allow(from, to entities.LeadStatus) bool { return true }

// SequentialPolicy enforces New -> Contacted -> Qualified -> {Won | Lost}.
// Any lead may be reopened to New.
type SequentialPolicy struct{}

var sequentialNext = map[entities.LeadStatus][]entities.LeadStatus{
	entities.LeadStatusNew:       {entities.LeadStatusContacted},
	entities.LeadStatusContacted: {entities.LeadStatusQualified},
	entities.LeadStatusQualified: {entities.LeadStatusWon, entities.LeadStatusLost},
}

func (SequentialPolicy) Allow(from, to entities.LeadStatus) bool {
	if to == entities.LeadStatusNew {
		return true
	}
	for _, next := range sequentialNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NewTransitionPolicy returns the policy registered under name.
func NewTransitionPolicy(name string) TransitionPolicy {
	if strings.EqualFold(strings.TrimSpace(name), "sequential") {
		return SequentialPolicy{}
	}
	return PermitAllPolicy{}
}

// TransitionOptions tunes the transition side effects
type TransitionOptions struct {
	FollowUpWindow      time.Duration
	ClearFollowUpOnExit bool
	Policy              TransitionPolicy
}

func DefaultTransitionOptions() TransitionOptions {
	return TransitionOptions{
		FollowUpWindow:      DefaultFollowUpWindow,
		ClearFollowUpOnExit: true,
		Policy:              PermitAllPolicy{},
	}
}

// ApplyTransition returns a copy of lead moved to status `to` at `now`.
// Entering Contacted schedules a follow-up; entering any other status clears
// it unless ClearFollowUpOnExit is off.
func ApplyTransition(lead *entities.Lead, to entities.LeadStatus, now time.Time, opts TransitionOptions) (*entities.Lead, error) {
	if !to.IsValid() {
		return nil, domainerrors.ValidationFailed(domainerrors.FieldErrors{
			"status": statusMessage,
		})
	}
	if lead.Status == to {
		return nil, domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict,
			fmt.Sprintf("lead is already %s", to), domainerrors.ErrNoOpTransition)
	}

	policy := opts.Policy
	if policy == nil {
		policy = PermitAllPolicy{}
	}
	if !policy.Allow(lead.Status, to) {
		return nil, domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict,
			fmt.Sprintf("cannot move lead from %s to %s", lead.Status, to), domainerrors.ErrTransitionDenied)
	}

	window := opts.FollowUpWindow
	if window <= 0 {
		window = DefaultFollowUpWindow
	}

	next := lead.Clone()
	next.Status = to
	if to == entities.LeadStatusContacted {
		next.FollowUpDate.SetValid(now.Add(window))
	} else if opts.ClearFollowUpOnExit {
		next.FollowUpDate.Valid = false
		next.FollowUpDate.Time = time.Time{}
	}
	next.UpdatedAt = nextUpdatedAt(lead.UpdatedAt, now)
	return next, nil
}

// ApplyAssignment returns a copy of lead owned by assignee. The second result
// is false when the assignee is unchanged.
func ApplyAssignment(lead *entities.Lead, assignee *uuid.UUID, now time.Time) (*entities.Lead, bool) {
	if assignee != nil && *assignee == uuid.Nil {
		assignee = nil
	}
	if lead.IsUnassigned() && assignee == nil {
		return lead.Clone(), false
	}
	if !lead.IsUnassigned() && assignee != nil && *lead.AssignedTo == *assignee {
		return lead.Clone(), false
	}

	next := lead.Clone()
	next.AssignedTo = nil
	if assignee != nil {
		id := *assignee
		next.AssignedTo = &id
	}
	next.UpdatedAt = nextUpdatedAt(lead.UpdatedAt, now)
	return next, true
}

// nextUpdatedAt keeps updatedAt strictly increasing even when the clock
// stalls or goes backwards.
func nextUpdatedAt(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Nanosecond)
}
