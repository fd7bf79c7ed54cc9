package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"bookfinder/be/internal/aggregator"
	"bookfinder/be/internal/book"
)

func sampleResponse() *aggregator.Response {
	sources := orderedmap.New[book.Source, aggregator.SourceStatus]()
	sources.Set(book.SourceCommercial, aggregator.SourceStatus{Found: 2, Status: aggregator.StatusSuccess})
	sources.Set(book.SourceCatalog, aggregator.SourceStatus{Status: aggregator.StatusError, Error: "openlibrary: unexpected status 503"})
	return &aggregator.Response{
		TotalFound: 2,
		Records:    []book.Record{{Key: "/works/GB_abc", Title: "Dune", Authors: []string{"Frank Herbert"}, Source: book.SourceCommercial}},
		Sources:    sources,
		Query:      "dune",
		Message:    "Found 2 books from google",
	}
}

func TestWriteResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, sampleResponse(), outputJSON))

	out := buf.String()
	assert.Contains(t, out, `"search_query": "dune"`)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(`"google": {`)), bytes.Index(buf.Bytes(), []byte(`"openlibrary": {`)))
}

func TestWriteResult_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, sampleResponse(), outputYAML))

	out := buf.String()
	assert.Contains(t, out, "search_query: dune")
	assert.NotContains(t, out, `"search_query"`)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("google:")), bytes.Index(buf.Bytes(), []byte("openlibrary:")))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded["num_found"])
	docs := decoded["docs"].([]any)
	require.Len(t, docs, 1)
	assert.Equal(t, "Dune", docs[0].(map[string]any)["title"])
}

func TestSearchCmd_RejectsUnknownOutput(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"search", "dune", "--output", "xml", "--env", ""})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output")
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"search"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}
