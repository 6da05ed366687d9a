package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No recent queries.")
}

func TestHistoryCmd_MostRecentFirst(t *testing.T) {
	setupTestServices(t)
	dir := writeDocs(t)

	for _, q := range []string{"deploy", "budget", "deploy"} {
		_, err := execute(t, "--path", dir, "search", q)
		require.NoError(t, err)
	}

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, " 1. deploy")
	assert.Contains(t, out, " 2. budget")
	assert.NotContains(t, out, " 3.")
}

func TestHistoryCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "history", "--json")
	require.NoError(t, err)

	var entries []string
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	_, err = execute(t, "search", "alpha")
	require.NoError(t, err)
	resetFlags()

	out, err = execute(t, "history", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, []string{"alpha"}, entries)
}

func TestHistoryCmd_Clear(t *testing.T) {
	svc := setupTestServices(t)

	_, err := execute(t, "search", "alpha")
	require.NoError(t, err)
	require.NotEmpty(t, svc.session.History())

	out, err := execute(t, "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared.")
	assert.Empty(t, svc.session.History())
}

func TestHistoryCmd_RejectsArgs(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "history", "extra")
	assert.Error(t, err)
}
