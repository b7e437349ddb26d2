package usecases

import (
	"math"
	"sort"
	"time"

	"leadflow.backend/internal/domain/entities"
)

// UpcomingFollowUpWindow bounds the dashboard's follow-up horizon.
const UpcomingFollowUpWindow = 7 * 24 * time.Hour

// ComputeDashboard aggregates the full lead collection as of now. Leads with
// an unrecognized status are counted in UnknownStatusCount and left out of
// LeadsByStatus.
func ComputeDashboard(leads []*entities.Lead, now time.Time) entities.DashboardMetrics {
	byStatus := make(map[entities.LeadStatus]int, len(entities.LeadStatuses))
	for _, s := range entities.LeadStatuses {
		byStatus[s] = 0
	}

	metrics := entities.DashboardMetrics{
		TotalLeads:        len(leads),
		LeadsByStatus:     byStatus,
		UpcomingFollowUps: []*entities.Lead{},
	}

	horizon := now.Add(UpcomingFollowUpWindow)
	for _, l := range leads {
		if l.Status.IsValid() {
			byStatus[l.Status]++
		} else {
			metrics.UnknownStatusCount++
		}
		if l.IsUnassigned() {
			metrics.UnassignedLeads++
		}
		if l.FollowUpDate.Valid && !l.FollowUpDate.Time.Before(now) && !l.FollowUpDate.Time.After(horizon) {
			metrics.UpcomingFollowUps = append(metrics.UpcomingFollowUps, l)
		}
	}
	sort.SliceStable(metrics.UpcomingFollowUps, func(i, j int) bool {
		return metrics.UpcomingFollowUps[i].FollowUpDate.Time.Before(metrics.UpcomingFollowUps[j].FollowUpDate.Time)
	})

	metrics.ScheduledFollowUps = len(metrics.UpcomingFollowUps)
	metrics.NewLeads = byStatus[entities.LeadStatusNew]
	metrics.QualifiedLeads = byStatus[entities.LeadStatusQualified]
	metrics.WonDeals = byStatus[entities.LeadStatusWon]
	if metrics.TotalLeads > 0 {
		metrics.ConversionRate = round2(100 * float64(metrics.WonDeals) / float64(metrics.TotalLeads))
	}
	return metrics
}

// GroupPipeline buckets leads into the canonical status columns. Leads keep
// their input order within a column; unknown statuses are skipped.
func GroupPipeline(leads []*entities.Lead) []entities.PipelineColumn {
	columns := make([]entities.PipelineColumn, len(entities.LeadStatuses))
	index := make(map[entities.LeadStatus]int, len(entities.LeadStatuses))
	for i, s := range entities.LeadStatuses {
		columns[i] = entities.PipelineColumn{
			Status: s,
			Title:  entities.PipelineColumnTitles[s],
			Leads:  []*entities.Lead{},
		}
		index[s] = i
	}
	for _, l := range leads {
		i, ok := index[l.Status]
		if !ok {
			continue
		}
		columns[i].Leads = append(columns[i].Leads, l)
		columns[i].Count++
	}
	return columns
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
