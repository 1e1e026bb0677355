package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	storage := NewLocalStorage(t.TempDir())

	storedName := NewStoredName("doc.docx")
	require.NoError(t, storage.Save(strings.NewReader("hello"), storedName))

	blob, err := storage.Open(storedName)
	require.NoError(t, err)
	defer blob.Close()

	content, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestLocalStorage_OpenMissing(t *testing.T) {
	storage := NewLocalStorage(t.TempDir())

	_, err := storage.Open("no-such-blob")
	assert.Error(t, err)
}

func TestNewStoredName(t *testing.T) {
	first := NewStoredName("doc.docx")
	second := NewStoredName("doc.docx")

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, "_doc.docx"))
}

func TestNewStoredName_StripsDirectories(t *testing.T) {
	storedName := NewStoredName("../../etc/passwd")
	assert.True(t, strings.HasSuffix(storedName, "_passwd"))
	assert.NotContains(t, storedName, "/")
}
