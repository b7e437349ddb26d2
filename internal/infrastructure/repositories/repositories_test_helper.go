package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createLeadTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE leads (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		company TEXT,
		lead_source TEXT,
		status TEXT NOT NULL,
		assigned_to TEXT,
		notes TEXT,
		follow_up_date DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createTeamMemberTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE team_members (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createLeadEventTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE lead_events (
		id TEXT PRIMARY KEY,
		lead_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		actor_id TEXT,
		from_status TEXT,
		to_status TEXT,
		notes TEXT,
		metadata TEXT,
		created_at DATETIME
	);`)
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}
