package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jantonca/easytax-au-sub002/internal/config"
	"github.com/jantonca/easytax-au-sub002/internal/ledger"
	"github.com/jantonca/easytax-au-sub002/internal/model"
)

func TestRunInit_NoGit(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runInit(dir, "Jan's Consulting", "51824753556", true))

	info, err := os.Stat(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	cfg, err := config.Load(filepath.Join(dir, "easytax.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Jan's Consulting", cfg.Business.Name)
	assert.Equal(t, "51824753556", cfg.Business.ABN)
	assert.False(t, cfg.Git.AutoCommit)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunSummary(t *testing.T) {
	dir := t.TempDir()
	svc := ledger.NewService(dir)

	_, err := svc.CreateExpense(model.Expense{
		Date:        time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
		Vendor:      "GitHub",
		AmountCents: 1100,
		GSTCents:    100,
		BusinessPct: 100,
	})
	require.NoError(t, err)
	_, err = svc.CreateIncome(model.Income{
		Date:          time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		Client:        "Acme",
		SubtotalCents: 10000,
		GSTCents:      1000,
		TotalCents:    11000,
	})
	require.NoError(t, err)

	assert.NoError(t, runSummary(dir, 2026))
}

func TestRunSummary_EmptyLedger(t *testing.T) {
	assert.NoError(t, runSummary(t.TempDir(), 2026))
}
