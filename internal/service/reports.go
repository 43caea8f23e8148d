package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/alerta/internal/api"
	"github.com/jask/alerta/internal/database/repository"
	"github.com/jask/alerta/internal/media"
	"github.com/jask/alerta/internal/session"
)

// Draft is the inform form as submitted.
type Draft struct {
	Title       string
	Description string
	// ChannelID is nil when no channel was picked.
	ChannelID   *int64
	ChannelName string
	Images      []media.Image
}

// ReportService submits emergency reports and keeps a local receipt of each.
type ReportService struct {
	API     *api.Client
	Session *session.Store
	// Repo is optional; without it nothing is recorded.
	Repo *repository.ReportRepo
	Log  *zap.Logger
}

// Create submits d. No field is required; an empty reporter is sent when nobody logged in.
func (s *ReportService) Create(ctx context.Context, d Draft) (api.CreatedEmergency, error) {
	reporter := s.Session.UserID()
	in := api.NewEmergency{
		Title:       d.Title,
		Description: d.Description,
		ChannelID:   d.ChannelID,
		ReporterID:  reporter,
	}
	for _, img := range d.Images {
		in.Images = append(in.Images, img.Attachment())
	}
	out, err := s.API.CreateEmergency(ctx, in)
	if err != nil {
		s.log().Info("create emergency failed", zap.Error(err))
		return api.CreatedEmergency{}, err
	}
	s.log().Info("emergency created", zap.Int64("remote_id", out.Emergency.ID), zap.Int("images", len(in.Images)))

	if s.Repo != nil {
		remote := out.Emergency.ID
		rec := repository.SentReport{
			ID:            uuid.NewString(),
			RemoteID:      &remote,
			Title:         d.Title,
			Description:   d.Description,
			ChannelID:     d.ChannelID,
			ChannelName:   d.ChannelName,
			ReporterID:    reporter,
			Attachments:   len(in.Images),
			ServerMessage: out.Message,
		}
		if err := s.Repo.Add(ctx, rec); err != nil {
			// the report reached the server; a lost receipt is not a failed submit
			s.log().Warn("record sent report", zap.Error(err))
		}
	}
	return out, nil
}

// History lists the local receipts of the session user, newest first.
func (s *ReportService) History(ctx context.Context) ([]repository.SentReport, error) {
	if s.Repo == nil {
		return nil, nil
	}
	list, err := s.Repo.ListByReporter(ctx, s.Session.UserID(), 0)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return list, nil
}

func (s *ReportService) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
