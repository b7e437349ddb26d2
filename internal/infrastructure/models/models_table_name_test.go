package models

import (
	"testing"

	"gorm.io/gorm/schema"
)

func TestTableNames(t *testing.T) {
	naming := schema.NamingStrategy{}
	if got := naming.TableName("Lead"); got != "leads" {
		t.Fatalf("unexpected Lead table name: %s", got)
	}
	if got := naming.TableName("TeamMember"); got != "team_members" {
		t.Fatalf("unexpected TeamMember table name: %s", got)
	}
	if got := (LeadEvent{}).TableName(); got != "lead_events" {
		t.Fatalf("unexpected LeadEvent table name: %s", got)
	}
}
