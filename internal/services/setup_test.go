package services

import (
	"testing"

	"gorm.io/gorm"

	"moneta/internal/testutil"
)

// testSetup bundles the in-memory database with its teardown.
type testSetup struct {
	t  *testing.T
	db *gorm.DB
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()
	return &testSetup{t: t, db: testutil.SetupTestDB(t)}
}

func (s *testSetup) teardown() {
	testutil.TeardownTestDB(s.t, s.db)
}
