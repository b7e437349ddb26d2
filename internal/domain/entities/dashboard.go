package entities

// DashboardMetrics aggregates the whole lead collection
type DashboardMetrics struct {
	TotalLeads         int                `json:"totalLeads"`
	LeadsByStatus      map[LeadStatus]int `json:"leadsByStatus"`
	ConversionRate     float64            `json:"conversionRate"`
	UpcomingFollowUps  []*Lead            `json:"upcomingFollowUps"`
	UnknownStatusCount int                `json:"unknownStatusCount"`
	NewLeads           int                `json:"newLeads"`
	QualifiedLeads     int                `json:"qualifiedLeads"`
	WonDeals           int                `json:"wonDeals"`
	UnassignedLeads    int                `json:"unassignedLeads"`
	ScheduledFollowUps int                `json:"scheduledFollowUps"`
	TeamMembers        int                `json:"teamMembers"`
	ActiveMembers      int                `json:"activeMembers"`
}

// PipelineColumn is one status bucket of the pipeline board
type PipelineColumn struct {
	Status LeadStatus `json:"status"`
	Title  string     `json:"title"`
	Count  int        `json:"count"`
	Leads  []*Lead    `json:"leads"`
}

// PipelineColumnTitles holds the board headings per status.
var PipelineColumnTitles = map[LeadStatus]string{
	LeadStatusNew:       "New Leads",
	LeadStatusContacted: "Contacted",
	LeadStatusQualified: "Qualified",
	LeadStatusWon:       "Won",
	LeadStatusLost:      "Lost",
}
