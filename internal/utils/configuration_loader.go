package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	sliceDecodeSeparatorConstant                    = ","
	configurationFileNotFoundMessageConstant        = "configuration file not found"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	missingConfigurationFileTemplateConstant        = "%w: %s"
)

// ErrConfigurationFileNotFound indicates a required configuration file could not be located.
var ErrConfigurationFileNotFound = errors.New(configurationFileNotFoundMessageConstant)

// ConfigurationLoader wraps Viper to load structured configuration files and environment overrides.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	environmentKeyReplacer    *strings.Replacer
	embeddedConfiguration     []byte
	embeddedConfigurationType string
	configurationFileRequired bool
	decodeHooks               []mapstructure.DecodeHookFunc
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader that searches known paths and respects an environment prefix.
// An empty configurationType lets the file extension decide the format.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	duplicatedSearchPaths := make([]string, len(searchPaths))
	copy(duplicatedSearchPaths, searchPaths)

	return &ConfigurationLoader{
		configurationName:      configurationName,
		configurationType:      strings.TrimSpace(configurationType),
		environmentPrefix:      environmentPrefix,
		searchPaths:            duplicatedSearchPaths,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}
}

// SetEmbeddedConfiguration stores embedded configuration data merged before user-provided configuration files.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedConfiguration = nil
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)

	if len(configurationData) == 0 {
		return
	}

	duplicatedData := make([]byte, len(configurationData))
	copy(duplicatedData, configurationData)
	loader.embeddedConfiguration = duplicatedData
}

// RequireConfigurationFile makes LoadConfiguration fail with ErrConfigurationFileNotFound when no file is found.
func (loader *ConfigurationLoader) RequireConfigurationFile(required bool) {
	if loader == nil {
		return
	}
	loader.configurationFileRequired = required
}

// AddDecodeHook registers a mapstructure hook applied ahead of the default duration and slice hooks.
func (loader *ConfigurationLoader) AddDecodeHook(hook mapstructure.DecodeHookFunc) {
	if loader == nil || hook == nil {
		return
	}
	loader.decodeHooks = append(loader.decodeHooks, hook)
}

// LoadConfiguration populates targetConfiguration using configuration files, defaults, and environment variables.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	if len(loader.configurationType) > 0 {
		viperInstance.SetConfigType(loader.configurationType)
	}

	if mergeError := loader.mergeEmbeddedConfiguration(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
	}

	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(searchPath)
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	if loader.environmentKeyReplacer != nil {
		viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	}
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	trimmedConfigurationFilePath := strings.TrimSpace(configurationFilePath)
	if len(trimmedConfigurationFilePath) > 0 {
		viperInstance.SetConfigFile(trimmedConfigurationFilePath)
	}

	readError := viperInstance.MergeInConfig()
	if readError != nil {
		if !isConfigurationFileMissing(readError) {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
		if loader.configurationFileRequired {
			return LoadedConfiguration{}, fmt.Errorf(missingConfigurationFileTemplateConstant, ErrConfigurationFileNotFound, loader.describeMissingFile(trimmedConfigurationFilePath))
		}
	}

	unmarshalError := viperInstance.Unmarshal(targetConfiguration, viper.DecodeHook(loader.composeDecodeHooks()))
	if unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

// mergeEmbeddedConfiguration parses embedded data separately so the project file keeps its own format.
func (loader *ConfigurationLoader) mergeEmbeddedConfiguration(viperInstance *viper.Viper) error {
	if len(loader.embeddedConfiguration) == 0 {
		return nil
	}

	configurationType := loader.embeddedConfigurationType
	if len(configurationType) == 0 {
		configurationType = loader.configurationType
	}

	embeddedInstance := viper.New()
	embeddedInstance.SetConfigType(configurationType)
	if readError := embeddedInstance.ReadConfig(bytes.NewReader(loader.embeddedConfiguration)); readError != nil {
		return readError
	}

	return viperInstance.MergeConfigMap(embeddedInstance.AllSettings())
}

func (loader *ConfigurationLoader) composeDecodeHooks() mapstructure.DecodeHookFunc {
	hooks := make([]mapstructure.DecodeHookFunc, 0, len(loader.decodeHooks)+2)
	hooks = append(hooks, loader.decodeHooks...)
	hooks = append(hooks,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(sliceDecodeSeparatorConstant),
	)
	return mapstructure.ComposeDecodeHookFunc(hooks...)
}

func (loader *ConfigurationLoader) describeMissingFile(configurationFilePath string) string {
	if len(configurationFilePath) > 0 {
		return configurationFilePath
	}
	return loader.configurationName
}

func isConfigurationFileMissing(readError error) bool {
	var notFoundError viper.ConfigFileNotFoundError
	if errors.As(readError, &notFoundError) {
		return true
	}
	return errors.Is(readError, fs.ErrNotExist)
}
