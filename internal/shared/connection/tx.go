package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Conn returns a session of db bound to ctx. When tx is set, statements run on
// that transaction, so gorm repositories share the caller's *sql.Tx.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	sess := db.WithContext(ctx)
	if tx != nil {
		sess.Statement.ConnPool = tx
	}
	return sess
}
