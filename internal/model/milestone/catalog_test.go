package milestone

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t,
		[]string{KeyRegistration, KeyPortfolio, KeyIdentity, KeyFirstSale},
		c.Keys())

	reg, ok := c.Get(KeyRegistration)
	require.True(t, ok)
	assert.Equal(t, int64(1), reg.Credits)

	_, ok = c.Get("unknown")
	assert.False(t, ok)
}

func TestLoadCatalog(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			"single milestone",
			"[[milestone]]\nkey = \"a\"\nlabel = \"A\"\ncredits = 4\n",
			false,
		},
		{"empty", "", true},
		{"broken toml", "[[milestone]\nkey=", true},
		{
			"empty key",
			"[[milestone]]\nkey = \"\"\ncredits = 1\n",
			true,
		},
		{
			"zero credits",
			"[[milestone]]\nkey = \"a\"\ncredits = 0\n",
			true,
		},
		{
			"duplicate",
			"[[milestone]]\nkey = \"a\"\ncredits = 1\n[[milestone]]\nkey = \"a\"\ncredits = 2\n",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.content))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "milestones.toml")
	require.NoError(t, os.WriteFile(path,
		[]byte("[[milestone]]\nkey = \"talk\"\nlabel = \"Talk\"\ncredits = 5\n"), 0o600))

	c, err := LoadCatalogFile(path)
	require.NoError(t, err)
	d, ok := c.Get("talk")
	require.True(t, ok)
	assert.Equal(t, "Talk", d.Label)

	_, err = LoadCatalogFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestCatalog_Merge(t *testing.T) {
	c := DefaultCatalog()
	done := time.Date(2026, 2, 3, 14, 30, 0, 0, time.UTC)
	merged := c.Merge([]Milestone{
		{Key: KeyPortfolio, Completed: true, CompletedAt: done},
		{Key: "legacy", Label: "Legacy", Credits: 7, Completed: true},
	})

	require.Len(t, merged, 5)
	assert.False(t, merged[KeyRegistration].Completed)
	assert.Equal(t, model.Credits(1), merged[KeyRegistration].Credits)
	assert.True(t, merged[KeyPortfolio].Completed)
	assert.Equal(t, done, merged[KeyPortfolio].CompletedAt)
	assert.Equal(t, "Portafolio subido", merged[KeyPortfolio].Label)
	assert.Equal(t, model.Credits(7), merged["legacy"].Credits)
}
