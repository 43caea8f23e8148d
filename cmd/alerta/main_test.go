package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/alerta/internal/database"
	"github.com/jask/alerta/internal/database/repository"
)

func seedHistory(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ALERTA_CONFIG", "")
	dbPath := filepath.Join(home, "history.db")
	t.Setenv("ALERTA_DATABASE_PATH", dbPath)

	db, err := database.OpenMigrated(dbPath)
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewReportRepo(db)
	remote, channel := int64(7), int64(3)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Add(context.Background(), repository.SentReport{
		ID: "rep-1", RemoteID: &remote, Title: "Incendio", Description: "Nave industrial",
		ChannelID: &channel, ChannelName: "Bomberos", ReporterID: "ana@example.test",
		Attachments: 1, ServerMessage: "Emergencia creada", CreatedAt: base,
	}))
	require.NoError(t, repo.Add(context.Background(), repository.SentReport{
		ID: "rep-2", Title: "Sin canal", ReporterID: "bob@example.test", CreatedAt: base.Add(time.Hour),
	}))
	return dbPath
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHistoryListsRowsAsTable(t *testing.T) {
	seedHistory(t)

	out, err := runRoot(t, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "REMOTE ID")
	require.Contains(t, lines[1], "rep-2")
	require.Contains(t, lines[1], "Sin canal")
	require.Contains(t, lines[2], "rep-1")
	require.Contains(t, lines[2], "Bomberos")
	require.NotContains(t, out, "\t")

	out, err = runRoot(t, "history", "--user", "ana@example.test")
	require.NoError(t, err)
	require.Contains(t, out, "rep-1")
	require.NotContains(t, out, "rep-2")
}

func TestHistoryShowsOneReportByID(t *testing.T) {
	seedHistory(t)

	out, err := runRoot(t, "history", "--id", "rep-1")
	require.NoError(t, err)
	require.Contains(t, out, "Nave industrial")
	require.Contains(t, out, "Emergencia creada")
	require.Contains(t, out, "7")

	_, err = runRoot(t, "history", "--id", "missing")
	require.ErrorContains(t, err, `no report with id "missing"`)
}

func TestHistoryClear(t *testing.T) {
	seedHistory(t)

	out, err := runRoot(t, "history", "--clear")
	require.NoError(t, err)
	require.Contains(t, out, "history cleared")

	out, err = runRoot(t, "history")
	require.NoError(t, err)
	require.Contains(t, out, "no reports sent yet")
}

func TestPrintHistoryEmpty(t *testing.T) {
	var out bytes.Buffer
	printHistory(&out, "2006-01-02", nil)
	require.Equal(t, "no reports sent yet\n", out.String())
}
