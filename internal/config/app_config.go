package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/codemass/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds defaults for the codemass command. Pointer
// fields distinguish an unset value from an explicit false.
type ApplicationConfiguration struct {
	Model           string   `mapstructure:"model"`
	Exclude         []string `mapstructure:"exclude"`
	ExcludeGlob     []string `mapstructure:"exclude_glob"`
	DisableJSON     *bool    `mapstructure:"no_json"`
	DisableMarkdown *bool    `mapstructure:"no_markdown"`
	DisableYAML     *bool    `mapstructure:"no_yaml"`
	PricingFile     string   `mapstructure:"pricing_file"`
	Copy            *bool    `mapstructure:"copy"`
}

// LoadApplicationConfiguration loads the global configuration file and overlays
// the local (or explicitly named) one on top of it.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if globalPath := globalConfigPath(); globalPath != "" {
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Exclude = utils.DeduplicatePatterns(merged.Exclude)
	merged.ExcludeGlob = utils.DeduplicatePatterns(merged.ExcludeGlob)
	return merged, nil
}

func globalConfigPath() string {
	homeDirectory, err := os.UserHomeDir()
	if err != nil || homeDirectory == "" {
		return ""
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Exclude tokens and globs accumulate; scalar values from override replace the receiver's.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Model != "" {
		result.Model = override.Model
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append(append([]string{}, config.Exclude...), override.Exclude...)
	}
	if len(override.ExcludeGlob) > 0 {
		result.ExcludeGlob = append(append([]string{}, config.ExcludeGlob...), override.ExcludeGlob...)
	}
	if override.DisableJSON != nil {
		result.DisableJSON = cloneBool(override.DisableJSON)
	}
	if override.DisableMarkdown != nil {
		result.DisableMarkdown = cloneBool(override.DisableMarkdown)
	}
	if override.DisableYAML != nil {
		result.DisableYAML = cloneBool(override.DisableYAML)
	}
	if override.PricingFile != "" {
		result.PricingFile = override.PricingFile
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

// BoolValue dereferences value, returning fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
