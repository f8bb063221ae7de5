package postgres

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockStore wires a Store to a sqlmock connection the same way the
// teacher's internal/dbmigrate.SchemaDumper wires gorm to sqlmock: a
// postgres.Config{Conn: ...} dialector over a fake *sql.DB, with
// PreferSimpleProtocol set so no driver-level prepared-statement probing
// races the mock's expectation queue.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// paginate runs its page and count queries concurrently via errgroup,
	// so the two queries can reach the mock connection in either order.
	mock.MatchExpectationsInOrder(false)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return &Store{db: gdb}, mock
}
