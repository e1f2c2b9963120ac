package cli_test

import (
	"bytes"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/versionings/cmd/cli"
	"github.com/temirov/versionings/internal/hosting"
	"github.com/temirov/versionings/internal/versioning"
)

func TestEmbeddedDefaultConfigurationMatchesDefaults(t *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(t, "yaml", configurationType)

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(t, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(hosting.StringToPlatformHookFunc()))
	require.NoError(t, viperInstance.Unmarshal(&configuration, decodeHook))

	require.Equal(t, "warn", configuration.Common.LogLevel)
	require.Equal(t, "console", configuration.Common.LogFormat)
	require.False(t, configuration.Common.ZeroExitOnFailure)
	require.Equal(t, versioning.DefaultConfiguration(), configuration.Versioning())
}

func TestEmbeddedDefaultConfigurationReturnsCopy(t *testing.T) {
	firstData, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(t, firstData)
	firstData[0] = '#'

	secondData, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(t, firstData[0], secondData[0])
}
