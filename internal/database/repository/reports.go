package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jask/alerta/internal/database"
)

// SentReport is a report this client submitted, kept for the history view.
type SentReport struct {
	ID            string
	RemoteID      *int64
	Title         string
	Description   string
	ChannelID     *int64
	ChannelName   string
	ReporterID    string
	Attachments   int
	ServerMessage string
	CreatedAt     time.Time
}

// ReportRepo handles sent_reports.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) Add(ctx context.Context, rep SentReport) error {
	created := rep.CreatedAt
	if created.IsZero() {
		created = database.Now()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sent_reports(
	 id, remote_id, title, description, channel_id, channel_name, reporter_id, attachments, server_message, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rep.ID, rep.RemoteID, rep.Title, rep.Description, rep.ChannelID, rep.ChannelName, rep.ReporterID, rep.Attachments, rep.ServerMessage, created)
	return err
}

// ListByReporter returns reporterID's reports, newest first. An empty
// reporterID lists everything.
func (r *ReportRepo) ListByReporter(ctx context.Context, reporterID string, limit int) ([]SentReport, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT id, remote_id, title, description, channel_id, channel_name, reporter_id, attachments, server_message, created_at
	FROM sent_reports`
	args := []any{}
	if reporterID != "" {
		q += ` WHERE reporter_id = ?`
		args = append(args, reporterID)
	}
	q += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SentReport
	for rows.Next() {
		var s SentReport
		if err := rows.Scan(&s.ID, &s.RemoteID, &s.Title, &s.Description, &s.ChannelID, &s.ChannelName, &s.ReporterID, &s.Attachments, &s.ServerMessage, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ReportRepo) Get(ctx context.Context, id string) (*SentReport, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, remote_id, title, description, channel_id, channel_name, reporter_id, attachments, server_message, created_at FROM sent_reports WHERE id = ?`, id)
	var s SentReport
	if err := row.Scan(&s.ID, &s.RemoteID, &s.Title, &s.Description, &s.ChannelID, &s.ChannelName, &s.ReporterID, &s.Attachments, &s.ServerMessage, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
