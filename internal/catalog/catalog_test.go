package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	docs := c.List()
	require.Len(t, docs, 4)
	assert.Equal(t, "Proyecto_Final.pdf", docs[0].Name)
	assert.Equal(t, "2.4 MB", docs[0].Size)
	assert.Equal(t, "2024-01-15", docs[0].UploadDate)
	assert.Equal(t, "Anexos.zip", docs[3].Name)

	doc, err := c.Get("3")
	require.NoError(t, err)
	assert.Equal(t, "Presentación.pptx", doc.Name)

	_, err = c.Get("99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefaultMembers(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	members := c.Members()
	require.Len(t, members, 5)
	assert.Equal(t, "María González", members[0].Name)

	m, err := c.Member("4")
	require.NoError(t, err)
	assert.Equal(t, "pedro@example.com", m.Email)

	_, err = c.Member("99")
	assert.ErrorIs(t, err, ErrMemberNotFound)

	members[0].Name = "changed"
	assert.Equal(t, "María González", c.Members()[0].Name)
}

func TestListIsReadOnly(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	docs := c.List()
	docs[0].Name = "changed"
	assert.Equal(t, "Proyecto_Final.pdf", c.List()[0].Name)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
documents:
  - id: a
    name: Informe.pdf
    size: 1 MB
    upload_date: "2024-02-01"
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.List(), 1)
	assert.Equal(t, "Informe.pdf", c.List()[0].Name)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("documents:\n  - id: a\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("documents:\n  - {id: a, name: x}\n  - {id: a, name: y}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("members:\n  - {id: m, name: x}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("members:\n  - {id: m, name: x, email: x@a.io}\n  - {id: m, name: y, email: y@a.io}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("documents: ["))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
