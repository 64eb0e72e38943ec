package repositories

import (
	"database/sql"
	"fmt"
)

// checkAffected maps an Exec that touched zero rows to the given sentinel.
func checkAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
