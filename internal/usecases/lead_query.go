package usecases

import (
	"sort"
	"strings"
	"time"

	"leadflow.backend/internal/domain/entities"
	"leadflow.backend/pkg/utils"
)

// QueryLeads filters, sorts and paginates leads. It does no I/O and returns
// the same page for the same arguments. The input slice is not modified.
func QueryLeads(leads []*entities.Lead, q entities.LeadQuery) entities.LeadPage {
	matched := make([]*entities.Lead, 0, len(leads))
	for _, l := range leads {
		if MatchesQuery(l, q) {
			matched = append(matched, l)
		}
	}

	sortLeads(matched, q.SortField, q.SortDirection)

	params := utils.GetPaginationParams(q.Page, q.PageSize)
	meta := utils.CalculateMeta(len(matched), params.Page, params.Limit)
	start, end := params.Bounds(len(matched))

	items := make([]*entities.Lead, 0, end-start)
	items = append(items, matched[start:end]...)
	return entities.LeadPage{
		Items:      items,
		TotalCount: meta.TotalCount,
		TotalPages: meta.TotalPages,
		Page:       meta.Page,
	}
}

// MatchesQuery reports whether l passes every active filter of q.
func MatchesQuery(l *entities.Lead, q entities.LeadQuery) bool {
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		if !containsFold(l.Name, term) &&
			!containsFold(l.Email, term) &&
			!containsFold(l.Company.String, term) &&
			!containsFold(l.Notes.String, term) {
			return false
		}
	}
	if q.Status != "" && l.Status != q.Status {
		return false
	}
	if q.Unassigned {
		if !l.IsUnassigned() {
			return false
		}
	} else if q.AssignedTo != nil {
		if l.IsUnassigned() || *l.AssignedTo != *q.AssignedTo {
			return false
		}
	}
	if q.LeadSource != "" && l.LeadSource != q.LeadSource {
		return false
	}
	return true
}

func containsFold(s, lowerTerm string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerTerm)
}

func sortLeads(leads []*entities.Lead, field string, dir entities.SortDirection) {
	cmp := leadComparator(field)
	desc := dir != entities.SortAsc
	sort.SliceStable(leads, func(i, j int) bool {
		c := cmp(leads[i], leads[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func leadComparator(field string) func(a, b *entities.Lead) int {
	switch field {
	case entities.SortFieldName:
		return func(a, b *entities.Lead) int { return strings.Compare(a.Name, b.Name) }
	case entities.SortFieldEmail:
		return func(a, b *entities.Lead) int { return strings.Compare(a.Email, b.Email) }
	case entities.SortFieldPhone:
		return func(a, b *entities.Lead) int { return strings.Compare(a.Phone.String, b.Phone.String) }
	case entities.SortFieldCompany:
		return func(a, b *entities.Lead) int { return strings.Compare(a.Company.String, b.Company.String) }
	case entities.SortFieldNotes:
		return func(a, b *entities.Lead) int { return strings.Compare(a.Notes.String, b.Notes.String) }
	case entities.SortFieldLeadSource:
		return func(a, b *entities.Lead) int { return strings.Compare(string(a.LeadSource), string(b.LeadSource)) }
	case entities.SortFieldStatus:
		return func(a, b *entities.Lead) int { return strings.Compare(string(a.Status), string(b.Status)) }
	case entities.SortFieldStatusRank:
		return func(a, b *entities.Lead) int { return compareInt(a.Status.Rank(), b.Status.Rank()) }
	case entities.SortFieldAssignedTo:
		return func(a, b *entities.Lead) int { return strings.Compare(assigneeKey(a), assigneeKey(b)) }
	case entities.SortFieldUpdatedAt:
		return func(a, b *entities.Lead) int { return compareTime(a.UpdatedAt, true, b.UpdatedAt, true) }
	case entities.SortFieldFollowUpDate:
		return func(a, b *entities.Lead) int {
			return compareTime(a.FollowUpDate.Time, a.FollowUpDate.Valid, b.FollowUpDate.Time, b.FollowUpDate.Valid)
		}
	default:
		return func(a, b *entities.Lead) int { return compareTime(a.CreatedAt, true, b.CreatedAt, true) }
	}
}

// assigneeKey is empty for unassigned leads so they sort first ascending.
func assigneeKey(l *entities.Lead) string {
	if l.IsUnassigned() {
		return ""
	}
	return l.AssignedTo.String()
}

// compareTime orders missing timestamps before present ones.
func compareTime(a time.Time, aok bool, b time.Time, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return a.Compare(b)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
