package implementation

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB opens a postgres dialect without a server. Statements are built
// but never sent; their SQL is collected in order.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	var statements []string
	capture := func(d *gorm.DB) {
		statements = append(statements, d.Statement.SQL.String())
	}
	cb := db.Callback()
	require.NoError(t, cb.Query().After("gorm:query").Register("test:capture_query", capture))
	require.NoError(t, cb.Create().After("gorm:create").Register("test:capture_create", capture))
	require.NoError(t, cb.Update().After("gorm:update").Register("test:capture_update", capture))
	return db, &statements
}
