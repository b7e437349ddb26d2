package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestLeadStatus_RankAndValidity(t *testing.T) {
	for i, s := range LeadStatuses {
		assert.Equal(t, i, s.Rank())
		assert.True(t, s.IsValid())
	}
	assert.Equal(t, -1, LeadStatus("Negotiating").Rank())
	assert.False(t, LeadStatus("").IsValid())
	assert.False(t, LeadStatus("new").IsValid())
}

func TestLeadSource_IsValid(t *testing.T) {
	assert.True(t, LeadSource("").IsValid())
	assert.True(t, LeadSourceTradeShow.IsValid())
	assert.False(t, LeadSource("Billboard").IsValid())
}

func TestLead_CloneDetachesAssignee(t *testing.T) {
	member := uuid.New()
	lead := &Lead{ID: uuid.New(), Name: "Ada", AssignedTo: &member}

	c := lead.Clone()
	require.NotNil(t, c.AssignedTo)
	*c.AssignedTo = uuid.New()
	assert.Equal(t, member, *lead.AssignedTo)

	var nilLead *Lead
	assert.Nil(t, nilLead.Clone())
}

func TestDiffLead_OnlyChangedFields(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	member := uuid.New()
	before := &Lead{
		ID:        uuid.New(),
		Name:      "Ada",
		Email:     "ada@example.com",
		Status:    LeadStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	after := before.Clone()
	after.Status = LeadStatusContacted
	after.FollowUpDate = null.TimeFrom(now.Add(7 * 24 * time.Hour))
	after.AssignedTo = &member
	after.UpdatedAt = now.Add(time.Minute)

	p := DiffLead(before, after)
	assert.False(t, p.IsEmpty())
	assert.Nil(t, p.Name)
	assert.Nil(t, p.Email)
	require.NotNil(t, p.Status)
	assert.Equal(t, LeadStatusContacted, *p.Status)
	require.NotNil(t, p.FollowUpDate)
	assert.True(t, p.FollowUpDate.Valid)
	require.NotNil(t, p.AssignedTo)
	assert.Equal(t, member, p.AssignedTo.UUID)
	assert.Equal(t, after.UpdatedAt, p.UpdatedAt)

	unassigned := after.Clone()
	unassigned.AssignedTo = nil
	p = DiffLead(after, unassigned)
	require.NotNil(t, p.AssignedTo)
	assert.False(t, p.AssignedTo.Valid)

	assert.True(t, DiffLead(before, before.Clone()).IsEmpty())
}
