package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestFleetctl_Workflow(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "file")
	dir := t.TempDir()

	out, err := run(t, dir, "vehicles", "add", "abcd12",
		"--model", "Volvo FH", "--year", "2020", "--price", "10000", "--days", "10",
		"--type", "cargo", "--capacity", "8000")
	require.NoError(t, err)
	assert.Equal(t, "added ABCD12\n", out)

	_, err = run(t, dir, "vehicles", "add", "EFGH34",
		"--model", "Sprinter", "--year", "2019", "--price", "20000", "--days", "3",
		"--type", "passenger", "--capacity", "12")
	require.NoError(t, err)

	out, err = run(t, dir, "vehicles", "ls", "--type", "cargo")
	require.NoError(t, err)
	assert.Contains(t, out, "ABCD12")
	assert.NotContains(t, out, "EFGH34")

	out, err = run(t, dir, "rent", "ABCD12", "--start", "2024-03-01", "--end", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "rented ABCD12\n", out)

	_, err = run(t, dir, "rent", "ABCD12", "--start", "2024-03-03", "--end", "2024-03-04")
	assert.ErrorIs(t, err, errUnavailable)

	out, err = run(t, dir, "extend", "ABCD12", "2024-03-05", "2024-03-08")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-08")

	// A fresh process sees the persisted booking.
	out, err = run(t, dir, "periods", "abcd12")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "2024-03-08")

	out, err = run(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Vehicles: 2 (rented 1, long-term 1)")

	out, err = run(t, dir, "vehicles", "invoice", "ABCD12")
	require.NoError(t, err)
	assert.Contains(t, out, "TOTAL: $")
	assert.Contains(t, out, "Average daily cost")

	_, err = run(t, dir, "finish", "ABCD12", "2024-03-02")
	assert.Error(t, err)

	out, err = run(t, dir, "finish", "ABCD12", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "finished ABCD12\n", out)

	out, err = run(t, dir, "vehicles", "rm", "ABCD12")
	require.NoError(t, err)
	assert.Equal(t, "removed ABCD12\n", out)

	_, err = run(t, dir, "vehicles", "rm", "ABCD12")
	assert.Error(t, err)
}

func TestFleetctl_ArgumentErrors(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "file")
	dir := t.TempDir()

	_, err := run(t, dir, "rent", "ABCD12")
	assert.Error(t, err)

	_, err = run(t, dir, "extend", "ABCD12", "tomorrow", "2024-03-08")
	assert.Error(t, err)

	_, err = run(t, dir, "vehicles", "add", "ABCD12",
		"--model", "X", "--year", "2020", "--price", "1", "--type", "boat", "--capacity", "1")
	assert.Error(t, err)
}
