package configcmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ntwoods/dealerdocs/internal/infrastructure/config"
	sharedConfig "github.com/ntwoods/dealerdocs/internal/shared/config"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
)

func TestCheck(t *testing.T) {
	var out bytes.Buffer
	err := Check(&out, &config.Config{Google: sharedConfig.GoogleConfig{ClientID: "id"}})

	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, errors.GetAppError(err).Details, "DEALERDOCS_GOOGLE_SHEET_ID")
	assert.Empty(t, out.String())

	out.Reset()
	require.NoError(t, Check(&out, &config.Config{Google: sharedConfig.GoogleConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		VerifyURL:    "https://verify.example/exec",
		SheetID:      "sheet",
		FolderID:     "folder",
	}}))
	assert.Equal(t, "configuration OK\n", out.String())
}

func TestShow_MasksSecrets(t *testing.T) {
	cfg := &config.Config{
		Google: sharedConfig.GoogleConfig{ClientID: "client-1", ClientSecret: "GOCSPX-abcdefgh"},
		Redis:  sharedConfig.RedisConfig{Password: "hunter22hunter"},
	}

	var out bytes.Buffer
	require.NoError(t, Show(&out, cfg))

	assert.NotContains(t, out.String(), "GOCSPX-abcdefgh")
	assert.NotContains(t, out.String(), "hunter22hunter")
	assert.Equal(t, "GOCSPX-abcdefgh", cfg.Google.ClientSecret, "input is not modified")

	var decoded config.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "client-1", decoded.Google.ClientID)
	assert.Equal(t, "GO***********gh", decoded.Google.ClientSecret)
}
