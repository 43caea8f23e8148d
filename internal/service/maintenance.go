package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/alerta/internal/database"
)

// MaintenanceService houses destructive local actions exposed by the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// ClearHistory wipes the local report history. The schema stays intact.
func (s *MaintenanceService) ClearHistory(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sent_reports"); err != nil {
			return fmt.Errorf("clear sent_reports: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
