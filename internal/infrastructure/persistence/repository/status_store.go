package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/persistence/sqlite"
)

// statusColumn implements port.StatusRepository for one table with a
// status column. The table name never comes from user input.
type statusColumn struct {
	db    *sql.DB
	table string
}

func (s statusColumn) GetStatus(ctx context.Context, id int64) (workflow.Status, bool, error) {
	query := fmt.Sprintf(`SELECT status FROM %s WHERE id = ?`, s.table)

	var status workflow.Status
	err := sqlite.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s status: %w", s.table, err)
	}
	return status, true, nil
}

func (s statusColumn) UpdateStatus(ctx context.Context, id int64, from, to workflow.Status) error {
	query := fmt.Sprintf(`
		UPDATE %s SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, s.table)

	result, err := sqlite.ExecutorFrom(ctx, s.db).ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update %s status: %w", s.table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return port.ErrStatusConflict
	}
	return nil
}

// encodeIDs stores a product id list as a JSON array
func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode product ids: %w", err)
	}
	return string(data), nil
}

func decodeIDs(raw string) ([]string, error) {
	ids := []string{}
	if raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode product ids: %w", err)
	}
	return ids, nil
}
