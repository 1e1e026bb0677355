package main

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSeed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitDB(filepath.Join(dir, "test.db")))
	t.Cleanup(CloseDB)
	storage := NewLocalStorage(dir)

	require.NoError(t, runSeed(storage))

	ops, err := GetUserByEmail(seedOpsEmail)
	require.NoError(t, err)
	assert.Equal(t, RoleOps, ops.Role)
	assert.True(t, ops.IsVerified)
	assert.True(t, CheckPassword(ops.PasswordHash, seedOpsPassword))

	client, err := GetUserByEmail(seedClientEmail)
	require.NoError(t, err)
	assert.Equal(t, RoleClient, client.Role)
	assert.True(t, client.IsVerified)

	records, err := ListFiles()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ops.ID, records[0].UploaderID)

	blob, err := storage.Open(records[0].StoredName)
	require.NoError(t, err)
	defer blob.Close()
	content, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "Test content", string(content))

	// Reseeding wipes and reprovisions rather than duplicating.
	require.NoError(t, runSeed(storage))
	records, err = ListFiles()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
