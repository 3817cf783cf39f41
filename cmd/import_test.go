package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPapers_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "papers.json")
	data := `[{"title":"Attention Is All You Need","arxiv_id":"1706.03762","publication_date":"2017-06-12"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	papers, err := readPapers(path)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Attention Is All You Need", papers[0].Title)
	assert.Equal(t, "1706.03762", papers[0].ArXivID)
}

func TestReadPapers_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "papers.yaml")
	data := `
- title: Deep learning
  doi: 10.1038/nature14539
  publication_date: "2015-05-27"
- title: Attention Is All You Need
  arxiv_id: "1706.03762"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	papers, err := readPapers(path)
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "10.1038/nature14539", papers[0].DOI)
	assert.Equal(t, "1706.03762", papers[1].ArXivID)
}

func TestReadPapers_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "papers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := readPapers(path)
	require.Error(t, err)
}

func TestReadPapers_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := readPapers(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
