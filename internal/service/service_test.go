package service

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/alerta/internal/api"
	"github.com/jask/alerta/internal/database"
	"github.com/jask/alerta/internal/database/repository"
	"github.com/jask/alerta/internal/fakeapi"
	"github.com/jask/alerta/internal/media"
	"github.com/jask/alerta/internal/prefs"
	"github.com/jask/alerta/internal/secrets"
	"github.com/jask/alerta/internal/session"
)

type fixture struct {
	srv     *fakeapi.Server
	client  *api.Client
	store   *session.Store
	bus     *session.Bus
	auth    *AuthService
	chans   *ChannelService
	reports *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := fakeapi.NewServer()
	t.Cleanup(srv.Close)
	client := api.New(srv.URL)
	store := session.NewStore()
	bus := session.NewBus()

	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "alerta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &fixture{
		srv:     srv,
		client:  client,
		store:   store,
		bus:     bus,
		auth:    &AuthService{API: client, Session: store},
		chans:   &ChannelService{API: client, Session: store, Bus: bus},
		reports: &ReportService{API: client, Session: store, Repo: repository.NewReportRepo(db)},
	}
}

func TestLoginSuccessSetsUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.srv.AddUser("ana@example.test", "secret")

	res, err := f.auth.Login(context.Background(), " ana@example.test ", "secret")
	require.NoError(t, err)
	require.True(t, res.Proceed)
	require.Empty(t, res.Notice)
	require.Equal(t, "ana@example.test", f.store.UserID())
}

func TestLoginRejectedKeepsSessionEmpty(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, err := f.auth.Login(context.Background(), "ana@example.test", "wrong")
	require.Error(t, err)
	require.False(t, res.Proceed)
	require.Equal(t, "Invalid credentials", UserMessage(err))
	_, ok := f.store.Current()
	require.False(t, ok)
}

func TestLegacyLoginProceedsOnRejection(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.auth.LegacyLogin = true

	res, err := f.auth.Login(context.Background(), "ana@example.test", "wrong")
	require.NoError(t, err)
	require.True(t, res.Proceed)
	require.Equal(t, "Invalid credentials", res.Notice)
	require.Equal(t, "ana@example.test", f.store.UserID())
}

func TestLegacyLoginStillFailsOnTransportError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.auth.LegacyLogin = true
	f.auth.API = api.New("http://127.0.0.1:1")

	_, err := f.auth.Login(context.Background(), "ana@example.test", "x")
	require.ErrorIs(t, err, api.ErrTransport)
	require.Equal(t, UnexpectedErrorText, UserMessage(err))
	require.Empty(t, f.store.UserID())
}

func TestLoginRemembersEmailAndPassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	dir := t.TempDir()
	f.srv.AddUser("ana@example.test", "secret")
	f.auth.PrefsDir = dir
	f.auth.Secrets = secrets.NewStore(dir)
	f.auth.RememberPassword = true

	_, err := f.auth.Login(context.Background(), "ana@example.test", "secret")
	require.NoError(t, err)

	p, err := prefs.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "ana@example.test", p.LastEmail)

	email, pw := f.auth.Remembered()
	require.Equal(t, "ana@example.test", email)
	require.Equal(t, "secret", pw)

	f.auth.RememberPassword = false
	_, err = f.auth.Login(context.Background(), "ana@example.test", "secret")
	require.NoError(t, err)
	email, pw = f.auth.Remembered()
	require.Equal(t, "ana@example.test", email)
	require.Empty(t, pw)
}

func TestRegisterIgnoresConfirmationByDefault(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	text, err := f.auth.Register(context.Background(), "new@example.test", "one", "two")
	require.NoError(t, err)
	require.Equal(t, "User registered", text)

	req, ok := f.srv.LastRequest("/api/registro/")
	require.True(t, ok)
	require.Equal(t, "one", req.JSON["password"])
	_, sent := req.JSON["confirmPassword"]
	require.False(t, sent)
}

func TestRegisterConfirmCheckWhenEnabled(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.auth.CheckPasswordConfirm = true

	_, err := f.auth.Register(context.Background(), "new@example.test", "one", "two")
	require.ErrorIs(t, err, ErrPasswordMismatch)
	_, ok := f.srv.LastRequest("/api/registro/")
	require.False(t, ok)
}

func TestRegisterDuplicateShowsServerText(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.srv.AddUser("ana@example.test", "x")

	_, err := f.auth.Register(context.Background(), "ana@example.test", "y", "y")
	require.Error(t, err)
	require.Equal(t, "Email already registered", UserMessage(err))
}

func TestChannelsRequireLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.chans.Subscribed(context.Background())
	require.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = f.chans.Subscribe(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotLoggedIn)
	require.Zero(t, f.bus.Published(session.SubscriptionsChanged))
}

func TestSubscribePublishesOnceAndMovesChannel(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.store.SetUser(session.UserFromEmail("ana@example.test"))
	id := f.srv.AddChannel("Bomberos")

	var events []session.Event
	cancel := f.bus.Subscribe(func(e session.Event) { events = append(events, e) })
	defer cancel()

	_, err := f.chans.Subscribe(ctx, id)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, session.SubscriptionsChanged, events[0].Kind)
	require.Equal(t, id, events[0].ChannelID)

	subs, err := f.chans.Subscribed(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, id, subs[0].ID)

	avail, err := f.chans.Available(ctx)
	require.NoError(t, err)
	require.Empty(t, avail)

	_, err = f.chans.Unsubscribe(ctx, id)
	require.NoError(t, err)
	require.Len(t, events, 2)
	subs, err = f.chans.Subscribed(ctx)
	require.NoError(t, err)
	require.Empty(t, subs)
}

func TestFailedSubscribePublishesNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.SetUser(session.UserFromEmail("ana@example.test"))

	_, err := f.chans.Subscribe(context.Background(), 404)
	require.Error(t, err)
	require.Equal(t, "Canal no encontrado", UserMessage(err))
	require.Zero(t, f.bus.Published(session.SubscriptionsChanged))
}

func TestCreateReportRecordsHistory(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.store.SetUser(session.UserFromEmail("ana@example.test"))
	id := f.srv.AddChannel("Bomberos", "ana@example.test")

	out, err := f.reports.Create(ctx, Draft{
		Title:       "Incendio",
		Description: "humo",
		ChannelID:   &id,
		ChannelName: "Bomberos",
		Images:      []media.Image{{Name: "a.png", Format: "png", Data: []byte("x")}},
	})
	require.NoError(t, err)
	require.NotZero(t, out.Emergency.ID)

	hist, err := f.reports.History(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.Equal(t, "Incendio", hist[0].Title)
	require.Equal(t, out.Emergency.ID, *hist[0].RemoteID)
	require.Equal(t, 1, hist[0].Attachments)
	require.Equal(t, out.Message, hist[0].ServerMessage)
}

func TestCreateReportFailureRecordsNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.store.SetUser(session.UserFromEmail("ana@example.test"))
	f.srv.FailNext(http.StatusInternalServerError, `{"mensaje":"boom"}`)

	_, err := f.reports.Create(ctx, Draft{Title: "x"})
	require.Error(t, err)
	require.Equal(t, "boom", UserMessage(err))

	hist, err := f.reports.History(ctx)
	require.NoError(t, err)
	require.Empty(t, hist)
}

func TestUserMessageFallsBackToErrorText(t *testing.T) {
	t.Parallel()
	require.Equal(t, "", UserMessage(nil))
	require.Equal(t, "boom", UserMessage(errors.New("boom")))
	require.Equal(t, "The selected file is not an image", UserMessage(media.ErrNotImage))
}

func TestClearHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := repository.NewReportRepo(db)
	require.NoError(t, repo.Add(ctx, repository.SentReport{ID: "a", Title: "t", ReporterID: "ana"}))

	require.NoError(t, (&MaintenanceService{DB: db}).ClearHistory(ctx))
	list, err := repo.ListByReporter(ctx, "", 0)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSubscribeWithBareStringReplyStillPublishes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.SetUser(session.UserFromEmail("ana@example.test"))
	id := f.srv.AddChannel("Bomberos")
	f.srv.FailNext(http.StatusOK, `"ok"`)

	ack, err := f.chans.Subscribe(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "ok", ack.Message)
	require.Equal(t, 1, f.bus.Published(session.SubscriptionsChanged))
}
