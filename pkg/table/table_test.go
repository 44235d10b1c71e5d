package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Header(t *testing.T) {
	in := "name\tpinyin\timportance\n" +
		"马\tma3\t100\n" +
		"\n" +
		"行\txing2\n"

	tbl, err := Read(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "pinyin", "importance"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "马", tbl.Rows[0].Get("name"))
	assert.Equal(t, "100", tbl.Rows[0].Get("importance"))
	assert.Equal(t, "", tbl.Rows[1].Get("importance"), "missing trailing column reads empty")
	assert.Equal(t, "", tbl.Rows[1].Get("unknown"))
}

func TestRead_EmptyAliasAndQuotes(t *testing.T) {
	in := "root\tkey\talias\n" +
		"木\tm\t\n" +
		"<\"\tab\t引号\n"

	tbl, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)

	assert.Equal(t, "", tbl.Rows[0].Get("alias"))
	assert.Equal(t, `<"`, tbl.Rows[1].Get("root"))
}

func TestRead_BOMHeader(t *testing.T) {
	tbl, err := Read(strings.NewReader("\ufeffname\tfrequency\n的\t9\n"))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "的", tbl.Rows[0].Get("name"))
}

func TestRead_Empty(t *testing.T) {
	tbl, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tbl.Rows)
}

func TestReadPairs(t *testing.T) {
	in := "的\tu\n我\n\n中国\tzg\n"

	pairs, err := ReadPairs(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"的", "u"}, {"我", ""}, {"中国", "zg"}}, pairs)
}

func TestReadFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.csv")

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ReadPairsFile(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
