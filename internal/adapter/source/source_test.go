package source

import (
	"testing"

	"github.com/mmcdole/cinedex/internal/adapter"
	"github.com/mmcdole/cinedex/internal/adapter/source/tmdb"
	"github.com/mmcdole/cinedex/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidates(t *testing.T) {
	_, err := NewClient(nil, nil)
	assert.Error(t, err)

	_, err = NewClient(&SourceConfig{Token: "k"}, nil)
	assert.ErrorContains(t, err, "URL")

	_, err = NewClient(&SourceConfig{URL: "http://x"}, nil)
	assert.ErrorContains(t, err, "token")
}

func TestNewClientRetryWrapping(t *testing.T) {
	plain, err := NewClient(&SourceConfig{URL: "http://x", Token: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &tmdb.Client{}, plain)

	wrapped, err := NewClient(&SourceConfig{URL: "http://x", Token: "k", Retries: 2}, nil)
	require.NoError(t, err)
	assert.IsType(t, &service.RetrySource{}, wrapped)
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := adapter.DefaultConfig()
	cfg.TMDB.Token = "k"
	src, err := NewClientFromConfig(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, src)
}
