package usecases_test

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"leadflow.backend/internal/domain/entities"
)

// fakeLeads builds n leads with random contact data spread over the 30 days
// before base. Statuses, sources and owners are drawn from the given pools.
func fakeLeads(f *gofakeit.Faker, n int, members []uuid.UUID, base time.Time) []*entities.Lead {
	statuses := make([]string, 0, len(entities.LeadStatuses))
	for _, s := range entities.LeadStatuses {
		statuses = append(statuses, string(s))
	}
	sources := []string{""}
	for _, s := range entities.LeadSources {
		sources = append(sources, string(s))
	}

	leads := make([]*entities.Lead, 0, n)
	for i := 0; i < n; i++ {
		created := base.Add(-time.Duration(f.Number(0, 30*24*60)) * time.Minute)
		l := &entities.Lead{
			ID:         uuid.New(),
			Name:       f.Name(),
			Email:      f.Email(),
			LeadSource: entities.LeadSource(f.RandomString(sources)),
			Status:     entities.LeadStatus(f.RandomString(statuses)),
			CreatedAt:  created,
			UpdatedAt:  created.Add(time.Duration(f.Number(0, 600)) * time.Minute),
		}
		if f.Bool() {
			l.Company.SetValid(f.Company())
		}
		if f.Bool() {
			l.Phone.SetValid(f.Phone())
		}
		if f.Bool() {
			l.Notes.SetValid(f.Sentence(6))
		}
		if len(members) > 0 && f.Bool() {
			id := members[f.Number(0, len(members)-1)]
			l.AssignedTo = &id
		}
		if l.Status == entities.LeadStatusContacted {
			l.FollowUpDate.SetValid(base.Add(time.Duration(f.Number(-3*24, 10*24)) * time.Hour))
		}
		leads = append(leads, l)
	}
	return leads
}

func fakeMembers(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}
