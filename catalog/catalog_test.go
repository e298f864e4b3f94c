package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/htmx-lsp/analysis"
	"github.com/cristianoliveira/htmx-lsp/catalog"
)

func labels(cs []catalog.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Label)
	}

	return out
}

func TestLoad_Builtin(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load()
	require.NoError(t, err)

	attrs := c.Attributes()
	require.NotEmpty(t, attrs)

	for _, attr := range attrs {
		assert.NotEmpty(t, attr.Description, attr.Name)
		assert.Contains(t, attr.Name, "hx-")
	}

	swap, ok := c.Attribute("hx-swap")
	require.True(t, ok)
	assert.Contains(t, labelsOf(swap.Values), "outerHTML")
}

func labelsOf(vs []catalog.Value) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Name)
	}

	return out
}

func TestCandidates(t *testing.T) {
	t.Parallel()

	c, err := catalog.Parse([]byte(`
attributes:
  - name: hx-get
    description: GET
  - name: hx-swap
    description: swap
    values:
      - name: innerHTML
        description: inner
      - name: outerHTML
        description: outer
  - name: hx-sync
    description: sync
`))
	require.NoError(t, err)

	tests := []struct {
		name   string
		result analysis.Classification
		want   []string
	}{
		{"none", analysis.NoCompletion{}, nil},
		{"all names", analysis.AttributeNameContext{Prefix: "hx-"}, []string{"hx-get", "hx-swap", "hx-sync"}},
		{"partial name", analysis.AttributeNameContext{Prefix: "hx-s"}, []string{"hx-swap", "hx-sync"}},
		{"short prefix", analysis.AttributeNameContext{Prefix: "h"}, []string{"hx-get", "hx-swap", "hx-sync"}},
		{"unrelated name", analysis.AttributeNameContext{Prefix: "cl"}, nil},
		{"values", analysis.AttributeValueContext{AttributeName: "hx-swap"}, []string{"innerHTML", "outerHTML"}},
		{"value prefix", analysis.AttributeValueContext{AttributeName: "hx-swap", Prefix: "o"}, []string{"outerHTML"}},
		{"attribute without values", analysis.AttributeValueContext{AttributeName: "hx-get"}, nil},
		{"unknown attribute", analysis.AttributeValueContext{AttributeName: "hx-nope"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := c.Candidates(tt.result)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}

			assert.Equal(t, tt.want, labels(got))
		})
	}
}

func TestCandidates_Kinds(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load()
	require.NoError(t, err)

	for _, cand := range c.Candidates(analysis.AttributeNameContext{Prefix: "hx-"}) {
		assert.Equal(t, catalog.CandidateAttribute, cand.Kind)
	}

	values := c.Candidates(analysis.AttributeValueContext{AttributeName: "hx-swap"})
	require.NotEmpty(t, values)

	for _, cand := range values {
		assert.Equal(t, catalog.CandidateValue, cand.Kind)
		assert.NotEmpty(t, cand.Documentation)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "attributes: [\n"},
		{"missing name", "attributes:\n  - description: x\n"},
		{"duplicate", "attributes:\n  - name: hx-get\n  - name: hx-get\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := catalog.Parse([]byte(tt.doc))
			require.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("attributes:\n  - name: data-hx-get\n    description: GET\n"), 0o600))

	c, err := catalog.LoadFile(path)
	require.NoError(t, err)

	_, ok := c.Attribute("data-hx-get")
	assert.True(t, ok)

	_, err = catalog.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
