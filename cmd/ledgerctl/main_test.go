package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/finance"
)

func run(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestExport_RejectsUnknownFormat(t *testing.T) {
	err := run("export", "--format", "csv", "--company", "01920000-0000-7000-8000-000000000001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported --format")
}

func TestCommands_RequireCompany(t *testing.T) {
	for _, args := range [][]string{
		{"export", "--format", "pdf"},
		{"stats"},
		{"balance", "--customer", "01920000-0000-7000-8000-0000000000c1"},
	} {
		err := run(args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "--company is required")
	}

	err := run("stats", "--company", "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --company")
}

func TestBalance_NeedsExactlyOneParty(t *testing.T) {
	company := "01920000-0000-7000-8000-000000000001"
	assert.Error(t, run("balance", "--company", company))
	assert.Error(t, run("balance", "--company", company,
		"--customer", "01920000-0000-7000-8000-0000000000c1",
		"--supplier", "01920000-0000-7000-8000-0000000000c2"))
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "estado.pdf", outputPath("", "estado.pdf"))
	assert.Equal(t, filepath.Join(dir, "estado.pdf"), outputPath(dir, "estado.pdf"))

	file := filepath.Join(dir, "custom.pdf")
	assert.Equal(t, file, outputPath(file, "estado.pdf"))
	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, finance.Summary{DailySales: types.MustMoney("300")}))
	assert.Contains(t, buf.String(), `"dailySales": "300"`)
}
