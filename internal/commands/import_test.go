package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jantonca/easytax-au-sub002/internal/importer"
	"github.com/jantonca/easytax-au-sub002/internal/ledger"
	"github.com/jantonca/easytax-au-sub002/internal/model"
	"github.com/jantonca/easytax-au-sub002/internal/runlog"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func defaultFlags(dir string) importFlags {
	return importFlags{dir: dir, threshold: -1}
}

func TestRunImport_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	file := writeCSV(t, dir, "bank.csv", "Date,Item,Total,GST\n01/07/2025,GitHub,11.00,0.00\n")

	require.NoError(t, runImport(file, defaultFlags(dir)))

	svc := ledger.NewService(dir)
	expenses, err := svc.ReadExpenses(2026)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "GitHub", expenses[0].Vendor)
	assert.Equal(t, int64(1100), expenses[0].AmountCents)

	vendors, err := svc.ListCounterparties(model.KindVendor)
	require.NoError(t, err)
	assert.Len(t, vendors, 1)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bank.csv", entries[0].File)
	assert.Equal(t, 1, entries[0].Success)
}

func TestRunImport_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	file := writeCSV(t, dir, "bank.csv", "Date,Item,Total\n01/07/2025,GitHub,11.00\n")

	flags := defaultFlags(dir)
	flags.dryRun = true
	require.NoError(t, runImport(file, flags))

	expenses, err := ledger.NewService(dir).ReadExpenses(2026)
	require.NoError(t, err)
	assert.Empty(t, expenses)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "dry runs are still logged")
	assert.True(t, entries[0].DryRun)
}

func TestRunImport_ExplicitMapping(t *testing.T) {
	dir := t.TempDir()
	file := writeCSV(t, dir, "weird.csv", "When,Who,How Much\n01/07/2025,GitHub,11.00\n")

	flags := defaultFlags(dir)
	flags.kind = "expense"
	flags.mapPairs = []string{"date=When", "counterparty=Who", "amount=How Much"}
	require.NoError(t, runImport(file, flags))

	expenses, err := ledger.NewService(dir).ReadExpenses(2026)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, int64(1100), expenses[0].AmountCents)
}

func TestRunImport_FileLevelFailure(t *testing.T) {
	dir := t.TempDir()
	file := writeCSV(t, dir, "bad.csv", "Foo,Bar\nx,y\n")

	err := runImport(file, defaultFlags(dir))
	assert.Error(t, err)

	entries, readErr := runlog.Read(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "failed runs produce no report and no log entry")
}

func TestRunImport_MissingFile(t *testing.T) {
	dir := t.TempDir()
	err := runImport(filepath.Join(dir, "nope.csv"), defaultFlags(dir))
	assert.Error(t, err)
}

func TestParseMappingFlags(t *testing.T) {
	mapping, err := parseMappingFlags(model.KindExpense, []string{"date=Date", "amount=Total"}, "02/01/2006")
	require.NoError(t, err)
	assert.Equal(t, "Date", mapping.Column(importer.RoleDate))
	assert.Equal(t, "Total", mapping.Column(importer.RoleAmount))
	assert.Equal(t, "02/01/2006", mapping.DateFormat)
}

func TestParseMappingFlags_Invalid(t *testing.T) {
	_, err := parseMappingFlags(model.KindExpense, []string{"dateDate"}, "")
	assert.ErrorContains(t, err, "role=Header")

	_, err = parseMappingFlags(model.KindExpense, []string{"colour=Blue"}, "")
	assert.ErrorContains(t, err, "unknown mapping role")
}
