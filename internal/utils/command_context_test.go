package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/versionings/internal/utils"
)

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, availableBefore := accessor.LoadedConfiguration(context.Background())
	require.False(testInstance, availableBefore)

	executionContext := accessor.WithLoadedConfiguration(context.Background(), utils.LoadedConfiguration{ConfigFileUsed: "/srv/widget/version.json"})
	loadedConfiguration, available := accessor.LoadedConfiguration(executionContext)
	require.True(testInstance, available)
	require.Equal(testInstance, "/srv/widget/version.json", loadedConfiguration.ConfigFileUsed)
}
