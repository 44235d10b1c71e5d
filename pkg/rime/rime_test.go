package rime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/c42/pkg/dictionary"
)

const sampleBase = `# Rime dictionary
---
name: c42
version: "2024.01"
sort: by_weight
columns:
  - text
  - code
  - weight
...
`

func TestLoadBase_DecodesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c42.dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleBase), 0o644))

	base, err := LoadBase(path)
	require.NoError(t, err)

	assert.Equal(t, "c42", base.Header.Name)
	assert.Equal(t, "2024.01", base.Header.Version)
	assert.Equal(t, "by_weight", base.Header.Sort)
	assert.True(t, base.Header.HasColumn("weight"))
	assert.False(t, base.Header.HasColumn("stem"))
}

func TestLoadBase_NoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte("的\tu\t1"), 0o644))

	base, err := LoadBase(path)
	require.NoError(t, err)
	assert.Empty(t, base.Header.Name)
	assert.True(t, base.Header.HasColumn("code"))
	assert.Equal(t, []string{"的\tu\t1"}, base.Lines)
}

func TestLoadBase_Missing(t *testing.T) {
	_, err := LoadBase(filepath.Join(t.TempDir(), "none.dict.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBase_BadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte("---\nname: [unclosed\n...\n"), 0o644))

	_, err := LoadBase(path)
	assert.Error(t, err)
}

func TestWriteDictionary_Appends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c42.dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleBase), 0o644))

	base, err := LoadBase(path)
	require.NoError(t, err)

	err = WriteDictionary(path, base, []dictionary.Entry{
		{Name: "马", Code: "mMA", Weight: 10},
		{Name: "好", Code: "nzH", Weight: 0},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleBase+"\n马\tmMA\t10\n好\tnzH\t0", string(data))
}

func TestWriteHintsAndAssociations(t *testing.T) {
	dir := t.TempDir()

	hintPath := filepath.Join(dir, "lua", "c42", "assembly.txt")
	require.NoError(t, WriteHints(hintPath, []dictionary.Hint{
		{Name: "马", Text: "木ＭＡ"},
		{Name: "丨", Text: "丨？？"},
	}))
	data, err := os.ReadFile(hintPath)
	require.NoError(t, err)
	assert.Equal(t, "马\t木ＭＡ\n丨\t丨？？", string(data))

	assocPath := filepath.Join(dir, "c42.import.txt")
	require.NoError(t, WriteAssociations(assocPath, []dictionary.Association{
		{Word: "阿姨", Leader: "阿", Weight: 2},
		{Word: "阿斗", Leader: "阿", Weight: 1},
	}))
	data, err = os.ReadFile(assocPath)
	require.NoError(t, err)
	assert.Equal(t, "阿姨\t阿\t2\n阿斗\t阿\t1", string(data))
}
