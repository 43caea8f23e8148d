package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/alerta/internal/database"
	"github.com/jask/alerta/internal/database/repository"
)

func openRepo(t *testing.T) *repository.ReportRepo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.OpenMigrated(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewReportRepo(db)
}

func TestReportRepoAddAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := openRepo(t)

	remote := int64(42)
	channel := int64(3)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Add(ctx, repository.SentReport{
		ID: "a", RemoteID: &remote, Title: "Fuego", ChannelID: &channel, ChannelName: "Bomberos",
		ReporterID: "ana", Attachments: 2, ServerMessage: "ok", CreatedAt: base,
	}))
	require.NoError(t, repo.Add(ctx, repository.SentReport{
		ID: "b", Title: "Sin canal", ReporterID: "ana", CreatedAt: base.Add(time.Hour),
	}))
	require.NoError(t, repo.Add(ctx, repository.SentReport{
		ID: "c", Title: "Otro", ReporterID: "bob", CreatedAt: base.Add(2 * time.Hour),
	}))

	list, err := repo.ListByReporter(ctx, "ana", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "b", list[0].ID)
	require.Nil(t, list[0].ChannelID)
	require.Equal(t, "a", list[1].ID)
	require.Equal(t, int64(42), *list[1].RemoteID)
	require.Equal(t, int64(3), *list[1].ChannelID)
	require.Equal(t, 2, list[1].Attachments)

	all, err := repo.ListByReporter(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "c", all[0].ID)
}

func TestReportRepoGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := openRepo(t)

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, repo.Add(ctx, repository.SentReport{ID: "x", Title: "t", ReporterID: "ana"}))
	got, err := repo.Get(ctx, "x")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "t", got.Title)
	require.False(t, got.CreatedAt.IsZero())
}

func TestMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		db, err := database.OpenMigrated(dbPath)
		require.NoError(t, err)
		require.NoError(t, database.RunMigrationsWithDB(db))
		require.NoError(t, db.Close())
	}
}
