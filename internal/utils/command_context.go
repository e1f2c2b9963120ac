package utils

import "context"

type commandContextKey string

const loadedConfigurationContextKeyConstant = commandContextKey("loadedConfiguration")

// CommandContextAccessor attaches configuration metadata to command contexts so subcommands can report where settings came from.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithLoadedConfiguration returns a child context carrying the loader metadata.
func (accessor CommandContextAccessor) WithLoadedConfiguration(parentContext context.Context, loadedConfiguration LoadedConfiguration) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, loadedConfigurationContextKeyConstant, loadedConfiguration)
}

// LoadedConfiguration reports the loader metadata stored in executionContext.
func (accessor CommandContextAccessor) LoadedConfiguration(executionContext context.Context) (LoadedConfiguration, bool) {
	if executionContext == nil {
		return LoadedConfiguration{}, false
	}
	loadedConfiguration, available := executionContext.Value(loadedConfigurationContextKeyConstant).(LoadedConfiguration)
	return loadedConfiguration, available
}
