package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/alerta/internal/api"
	"github.com/jask/alerta/internal/session"
)

// ChannelService lists channels and changes membership for the session user.
type ChannelService struct {
	API     *api.Client
	Session *session.Store
	Bus     *session.Bus
	Log     *zap.Logger
}

func (s *ChannelService) userID() (string, error) {
	id := s.Session.UserID()
	if id == "" {
		return "", ErrNotLoggedIn
	}
	return id, nil
}

// Subscribed lists the session user's channels.
func (s *ChannelService) Subscribed(ctx context.Context) ([]api.Channel, error) {
	id, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.API.SubscribedChannels(ctx, id)
}

// Available lists channels the session user can still join.
func (s *ChannelService) Available(ctx context.Context) ([]api.Channel, error) {
	id, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.API.UnsubscribedChannels(ctx, id)
}

func (s *ChannelService) Emergencies(ctx context.Context, channelID int64) ([]api.Emergency, error) {
	return s.API.Emergencies(ctx, channelID)
}

// Subscribe joins channelID and publishes one SubscriptionsChanged on success.
func (s *ChannelService) Subscribe(ctx context.Context, channelID int64) (api.Ack, error) {
	return s.mutate(ctx, channelID, true)
}

// Unsubscribe leaves channelID and publishes one SubscriptionsChanged on success.
func (s *ChannelService) Unsubscribe(ctx context.Context, channelID int64) (api.Ack, error) {
	return s.mutate(ctx, channelID, false)
}

func (s *ChannelService) mutate(ctx context.Context, channelID int64, join bool) (api.Ack, error) {
	id, err := s.userID()
	if err != nil {
		return api.Ack{}, err
	}
	op := "unsubscribe"
	call := s.API.Unsubscribe
	if join {
		op = "subscribe"
		call = s.API.Subscribe
	}
	ack, err := call(ctx, channelID, id)
	if err != nil {
		s.log().Info(op+" failed", zap.Int64("channel_id", channelID), zap.Error(err))
		return api.Ack{}, fmt.Errorf("%s channel %d: %w", op, channelID, err)
	}
	s.log().Info(op, zap.Int64("channel_id", channelID), zap.String("user", id))
	if s.Bus != nil {
		s.Bus.Publish(session.Event{Kind: session.SubscriptionsChanged, ChannelID: channelID})
	}
	return ack, nil
}

func (s *ChannelService) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
