package credentials

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storageerrors "github.com/attachstore/attachstore/pkg/errors"
)

const flatYAML = `
username: alice
api_key: secret123
servicenet: true
auth_url: https://auth.example
container: avatars
cname: http://assets.example.com
`

func TestResolver_FlatSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creds.yml")
	require.NoError(t, os.WriteFile(path, []byte(flatYAML), 0600))

	sources := map[string]Source{
		"path":   PathSource{Path: path},
		"reader": ReaderSource{Reader: strings.NewReader(flatYAML)},
		"inline": InlineSource{Values: map[string]interface{}{
			"username":   "alice",
			"api_key":    "secret123",
			"servicenet": true,
			"auth_url":   "https://auth.example",
			"container":  "avatars",
			"cname":      "http://assets.example.com",
		}},
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			resolver := NewResolver("", nil)
			creds, err := resolver.Resolve(src)
			require.NoError(t, err)

			assert.Equal(t, "alice", creds.Username)
			assert.Equal(t, "secret123", creds.APIKey)
			assert.True(t, creds.ServiceNet)
			assert.Equal(t, "https://auth.example", creds.AuthURL)
			assert.Equal(t, "avatars", creds.Container)
			assert.Equal(t, "http://assets.example.com", creds.CNAME)
		})
	}
}

func TestResolver_EnvironmentKeyed(t *testing.T) {
	doc := `
production:
  username: prod-user
  api_key: prod-key
development:
  username: dev-user
  api_key: dev-key
`
	resolver := NewResolver("production", nil)
	creds, err := resolver.Resolve(ReaderSource{Reader: strings.NewReader(doc)})
	require.NoError(t, err)
	assert.Equal(t, "prod-user", creds.Username)
	assert.Equal(t, "prod-key", creds.APIKey)
}

func TestResolver_EnvironmentMissingFallsBackToFlat(t *testing.T) {
	resolver := NewResolver("staging", nil)
	creds, err := resolver.Resolve(ReaderSource{Reader: strings.NewReader(flatYAML)})
	require.NoError(t, err)
	assert.Equal(t, "alice", creds.Username)
}

func TestResolver_KeyNormalization(t *testing.T) {
	doc := `
":USERNAME": alice
API-KEY: secret123
Container-Name: avatars
`
	resolver := NewResolver("", nil)
	creds, err := resolver.Resolve(ReaderSource{Reader: strings.NewReader(doc)})
	require.NoError(t, err)
	assert.Equal(t, "alice", creds.Username)
	assert.Equal(t, "secret123", creds.APIKey)
	assert.Equal(t, "avatars", creds.Container)
}

func TestResolver_ContainerNameAlias(t *testing.T) {
	resolver := NewResolver("", nil)
	creds, err := resolver.Resolve(InlineSource{Values: map[string]interface{}{
		"username":       "alice",
		"api_key":        "k",
		"container_name": "photos",
	}})
	require.NoError(t, err)
	assert.Equal(t, "photos", creds.Container)
}

func TestResolver_MissingRequiredKeys(t *testing.T) {
	resolver := NewResolver("", nil)
	_, err := resolver.Resolve(InlineSource{Values: map[string]interface{}{
		"username": "alice",
	}})
	require.Error(t, err)
	assert.True(t, storageerrors.IsConfiguration(err))

	storageErr, ok := storageerrors.AsStorageError(err)
	require.True(t, ok)
	assert.Equal(t, storageerrors.ErrCodeMissingCredentials, storageErr.Code)
}

func TestResolver_InvalidSources(t *testing.T) {
	resolver := NewResolver("", nil)

	tests := []struct {
		name string
		src  Source
	}{
		{"nil reader", ReaderSource{}},
		{"nil inline mapping", InlineSource{}},
		{"missing file", PathSource{Path: filepath.Join(t.TempDir(), "absent.yml")}},
		{"unparsable document", ReaderSource{Reader: strings.NewReader("[:not yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(tt.src)
			require.Error(t, err)
			assert.True(t, storageerrors.IsConfiguration(err))
		})
	}
}

func TestResolver_NoCachingBetweenResolves(t *testing.T) {
	resolver := NewResolver("", nil)

	first, err := resolver.Resolve(InlineSource{Values: map[string]interface{}{
		"username": "alice", "api_key": "one",
	}})
	require.NoError(t, err)

	second, err := resolver.Resolve(InlineSource{Values: map[string]interface{}{
		"username": "alice", "api_key": "two",
	}})
	require.NoError(t, err)

	assert.Equal(t, "one", first.APIKey)
	assert.Equal(t, "two", second.APIKey)
}
