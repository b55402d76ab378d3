package services

import (
	"context"

	"gorm.io/gorm"
)

// runInTx wraps fn in a DB transaction. Services constructed without a DB
// (unit tests with fake repos) run fn directly with a nil tx, which every
// repo treats as "use your own handle".
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
