package apps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogTOML = `
[[apps]]
category = "Tools"
name = "Wiki"
img = "wiki.svg"
url = "https://wiki.example.com/start"

[[apps]]
category = "tools"
name = "Monitoring"
img = "grafana.svg"
url = "https://grafana.example.com"

[[apps]]
category = "sales"
name = "CRM"
img = "crm.svg"
url = "https://crm.example.com"
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apps.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestByCategoryPadsGrid(t *testing.T) {
	c, err := Load(writeCatalog(t, catalogTOML))
	require.NoError(t, err)
	assert.Equal(t, []string{"tools", "sales"}, c.Categories())

	got, err := c.ByCategory("TOOLS", 9)
	require.NoError(t, err)
	require.Len(t, got, 9)
	assert.Equal(t, "Wiki", got[0].Name)
	assert.Equal(t, "wiki.example.com", got[0].Host())
	assert.Equal(t, "Monitoring", got[1].Name)
	for _, app := range got[2:] {
		assert.True(t, app.Placeholder())
		assert.Empty(t, app.Host())
	}
}

func TestByCategoryDoesNotTruncate(t *testing.T) {
	c, err := Load(writeCatalog(t, catalogTOML))
	require.NoError(t, err)
	got, err := c.ByCategory("tools", 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestByCategoryUnknown(t *testing.T) {
	c, err := Load(writeCatalog(t, catalogTOML))
	require.NoError(t, err)
	_, err = c.ByCategory("games", 9)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestLoadMissingAndInvalid(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Empty(t, c.Apps)

	_, err = Load(writeCatalog(t, "[[apps]]\nname = \"x\"\nurl = \"not a url\"\n"))
	assert.Error(t, err)
}
