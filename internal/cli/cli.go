// Package cli provides the codemass command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codemass/internal/aggregate"
	"github.com/temirov/codemass/internal/config"
	"github.com/temirov/codemass/internal/exclusion"
	"github.com/temirov/codemass/internal/output"
	"github.com/temirov/codemass/internal/pricing"
	"github.com/temirov/codemass/internal/scanner"
	"github.com/temirov/codemass/internal/services/clipboard"
	"github.com/temirov/codemass/internal/tokenizer"
	"github.com/temirov/codemass/internal/types"
	"github.com/temirov/codemass/internal/utils"
)

const (
	excludeFlagName       = "exclude"
	excludeGlobFlagName   = "exclude-glob"
	noJSONFlagName        = "no-json"
	noMarkdownFlagName    = "no-markdown"
	noMarkdownAliasName   = "no-md"
	noYAMLFlagName        = "no-yaml"
	modelFlagName         = "model"
	listModelsFlagName    = "list-models"
	versionFlagName       = "version"
	copyFlagName          = "copy"
	pricingFlagName       = "pricing"
	configFlagName        = "config"
	initFlagName          = "init"
	forceFlagName         = "force"
	versionTemplate       = "codemass version: %s\n"
	configWrittenTemplate = "Configuration written to %s\n"

	rootUse              = "codemass [path]"
	rootShortDescription = "Weigh your code in tokens"
	rootLongDescription  = `codemass walks a directory, skips ignored, excluded and binary files,
counts the tokens of every remaining text file with the o200k_base tokenizer
and reports totals, a per-extension breakdown, the largest files and a cost
estimate for the selected model.

Rules from .gitignore at the scan root are always applied on top of the
built-in rules for version control, dependency and build output directories.`
	rootUsageExample = `  # All text files with the default model
  codemass

  # Use GPT-5 pricing for another directory
  codemass ../service --model gpt-5

  # Exclude JSON and YAML
  codemass --no-json --no-yaml

  # Exclude test files and an extension
  codemass --exclude .test.,log

  # Exclude generated files by file name glob
  codemass --exclude-glob '*.gen.go,*.pb.go'

  # Show all available models
  codemass --list-models`

	excludeFlagDescription     = "exclude extensions or file name patterns (comma-separated)"
	excludeGlobFlagDescription = "exclude files whose lowercase name matches a glob (comma-separated)"
	noJSONFlagDescription      = "exclude JSON files"
	noMarkdownFlagDescription  = "exclude Markdown files"
	noYAMLFlagDescription      = "exclude YAML files"
	modelFlagDescription       = "model used for pricing (default from the pricing table)"
	listModelsFlagDescription  = "list available models and pricing"
	versionFlagDescription     = "display application version"
	copyFlagDescription        = "copy the report to the clipboard"
	pricingFlagDescription     = "load the pricing table from a YAML file"
	configFlagDescription      = "read configuration from this file instead of " + utils.ConfigFileName
	initFlagDescription        = "write a default configuration file (local or global) and exit"
	forceFlagDescription       = "overwrite an existing configuration file with --init"

	errorLoadConfigurationFormat = "load configuration: %w"
	errorLoadPricingFormat       = "load pricing: %w"
	errorCreateCounterFormat     = "create token counter: %w"
	errorAbsolutePathFormat      = "resolve path %s: %w"
	errorStatFormat              = "stat %s: %w"
	errorWorkingDirectoryFormat  = "unable to determine working directory: %w"
	warningCopyFailed            = "failed to copy report to clipboard"
	debugExclusionPolicy         = "exclusion policy"
)

// CounterFactory builds the token counter for a run.
type CounterFactory func(tokenizer.Config) (tokenizer.Counter, error)

// Dependencies are the collaborators of the root command.
type Dependencies struct {
	Logger           *zap.Logger
	Stdout           io.Writer
	NewCounter       CounterFactory
	Copier           clipboard.Copier
	WorkingDirectory string
}

// options holds the parsed flag values of one invocation.
type options struct {
	excludeTokens   []string
	excludeGlobs    []string
	disableJSON     bool
	disableMarkdown bool
	disableYAML     bool
	modelID         string
	listModels      bool
	showVersion     bool
	copyReport      bool
	pricingFile     string
	configFile      string
	initTarget      string
	forceInit       bool
}

// Execute runs the codemass application with the process arguments.
func Execute(logger *zap.Logger) error {
	return Run(Dependencies{
		Logger:     logger,
		Stdout:     os.Stdout,
		NewCounter: tokenizer.NewCounter,
		Copier:     clipboard.NewService(),
	}, os.Args[1:])
}

// Run executes the root command with arguments.
func Run(dependencies Dependencies, arguments []string) error {
	rootCommand := NewRootCommand(dependencies)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand.Flags(), arguments))
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}

	var commandOptions options
	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return run(command, dependencies, commandOptions, arguments)
		},
	}
	rootCommand.SetOut(dependencies.Stdout)

	flagSet := rootCommand.Flags()
	flagSet.StringSliceVar(&commandOptions.excludeTokens, excludeFlagName, nil, excludeFlagDescription)
	flagSet.StringSliceVar(&commandOptions.excludeGlobs, excludeGlobFlagName, nil, excludeGlobFlagDescription)
	registerBooleanFlag(flagSet, &commandOptions.disableJSON, false, noJSONFlagDescription, noJSONFlagName)
	registerBooleanFlag(flagSet, &commandOptions.disableMarkdown, false, noMarkdownFlagDescription, noMarkdownFlagName, noMarkdownAliasName)
	registerBooleanFlag(flagSet, &commandOptions.disableYAML, false, noYAMLFlagDescription, noYAMLFlagName)
	registerBooleanFlag(flagSet, &commandOptions.copyReport, false, copyFlagDescription, copyFlagName)
	flagSet.StringVar(&commandOptions.modelID, modelFlagName, "", modelFlagDescription)
	flagSet.BoolVar(&commandOptions.listModels, listModelsFlagName, false, listModelsFlagDescription)
	flagSet.BoolVar(&commandOptions.showVersion, versionFlagName, false, versionFlagDescription)
	flagSet.StringVar(&commandOptions.pricingFile, pricingFlagName, "", pricingFlagDescription)
	flagSet.StringVar(&commandOptions.configFile, configFlagName, "", configFlagDescription)
	flagSet.StringVar(&commandOptions.initTarget, initFlagName, "", initFlagDescription)
	flagSet.Lookup(initFlagName).NoOptDefVal = string(config.InitTargetLocal)
	flagSet.BoolVar(&commandOptions.forceInit, forceFlagName, false, forceFlagDescription)
	return rootCommand
}

func run(command *cobra.Command, dependencies Dependencies, commandOptions options, arguments []string) error {
	stdout := dependencies.Stdout
	if commandOptions.showVersion {
		_, err := fmt.Fprintf(stdout, versionTemplate, utils.GetApplicationVersion())
		return err
	}

	workingDirectory, workingDirectoryError := resolveWorkingDirectory(dependencies.WorkingDirectory)
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	if commandOptions.initTarget != "" {
		writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
			Target:           config.InitTarget(commandOptions.initTarget),
			Force:            commandOptions.forceInit,
			WorkingDirectory: workingDirectory,
		})
		if initError != nil {
			return initError
		}
		_, err := fmt.Fprintf(stdout, configWrittenTemplate, writtenPath)
		return err
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: commandOptions.configFile,
	})
	if configurationError != nil {
		return fmt.Errorf(errorLoadConfigurationFormat, configurationError)
	}
	settings := mergeSettings(command, commandOptions, applicationConfiguration)

	pricingTable, pricingError := loadPricingTable(settings.pricingFile, workingDirectory)
	if pricingError != nil {
		return fmt.Errorf(errorLoadPricingFormat, pricingError)
	}

	if settings.listModels {
		_, err := io.WriteString(stdout, output.RenderModelList(pricingTable))
		return err
	}

	modelID := pricingTable.ResolveID(settings.modelID)
	model, lookupError := pricingTable.Lookup(modelID)
	if lookupError != nil {
		return withModelHint(lookupError)
	}

	displayPath := workingDirectory
	if len(arguments) > 0 {
		displayPath = arguments[0]
	}
	scanRoot, pathError := resolveScanRoot(displayPath, workingDirectory)
	if pathError != nil {
		return pathError
	}

	if _, err := io.WriteString(stdout, output.RenderHeader(scanRoot.DisplayPath)); err != nil {
		return err
	}

	counter, counterError := dependencies.NewCounter(tokenizer.Config{Encoding: tokenizer.DefaultEncodingName})
	if counterError != nil {
		return fmt.Errorf(errorCreateCounterFormat, counterError)
	}

	exclusions := exclusion.Build(exclusion.Options{
		ExcludeTokens:   settings.excludeTokens,
		GlobPatterns:    settings.excludeGlobs,
		DisableJSON:     settings.disableJSON,
		DisableMarkdown: settings.disableMarkdown,
		DisableYAML:     settings.disableYAML,
	})
	dependencies.Logger.Debug(debugExclusionPolicy,
		zap.Strings("extensions", exclusions.Extensions()),
		zap.Strings("name_patterns", exclusions.NamePatterns()),
		zap.Strings("globs", exclusions.GlobPatterns()),
	)

	records, scanError := scanner.New(scanner.Options{
		Root:        scanRoot.AbsolutePath,
		DisplayRoot: scanRoot.DisplayPath,
		Exclusions:  exclusions,
		Counter:     counter,
		Logger:      dependencies.Logger,
	}).Scan()
	if scanError != nil {
		return scanError
	}

	if len(records) == 0 {
		_, err := io.WriteString(stdout, output.RenderNoFiles())
		return err
	}

	report := output.RenderReport(output.ReportData{
		Summary:      aggregate.Summarize(records),
		ModelID:      modelID,
		Model:        model,
		EncodingName: counter.Name(),
	})
	if _, err := io.WriteString(stdout, report); err != nil {
		return err
	}

	if settings.copyReport && dependencies.Copier != nil {
		if copyError := dependencies.Copier.Copy(report); copyError != nil {
			dependencies.Logger.Warn(warningCopyFailed, zap.Error(copyError))
		}
	}
	return nil
}

// settings are the effective options after overlaying flags on configuration.
type settings struct {
	excludeTokens   []string
	excludeGlobs    []string
	disableJSON     bool
	disableMarkdown bool
	disableYAML     bool
	modelID         string
	listModels      bool
	copyReport      bool
	pricingFile     string
}

// mergeSettings applies configuration values that no explicit flag overrides.
// Configured exclude tokens and globs come before the command line ones.
func mergeSettings(command *cobra.Command, commandOptions options, configuration config.ApplicationConfiguration) settings {
	flagSet := command.Flags()
	merged := settings{
		excludeTokens:   append(append([]string{}, configuration.Exclude...), commandOptions.excludeTokens...),
		excludeGlobs:    append(append([]string{}, configuration.ExcludeGlob...), commandOptions.excludeGlobs...),
		disableJSON:     config.BoolValue(configuration.DisableJSON, false),
		disableMarkdown: config.BoolValue(configuration.DisableMarkdown, false),
		disableYAML:     config.BoolValue(configuration.DisableYAML, false),
		modelID:         configuration.Model,
		listModels:      commandOptions.listModels,
		copyReport:      config.BoolValue(configuration.Copy, false),
		pricingFile:     configuration.PricingFile,
	}
	if anyFlagChanged(flagSet, noJSONFlagName) {
		merged.disableJSON = commandOptions.disableJSON
	}
	if anyFlagChanged(flagSet, noMarkdownFlagName, noMarkdownAliasName) {
		merged.disableMarkdown = commandOptions.disableMarkdown
	}
	if anyFlagChanged(flagSet, noYAMLFlagName) {
		merged.disableYAML = commandOptions.disableYAML
	}
	if anyFlagChanged(flagSet, copyFlagName) {
		merged.copyReport = commandOptions.copyReport
	}
	if anyFlagChanged(flagSet, modelFlagName) {
		merged.modelID = commandOptions.modelID
	}
	if anyFlagChanged(flagSet, pricingFlagName) {
		merged.pricingFile = commandOptions.pricingFile
	}
	return merged
}

func loadPricingTable(pricingFile string, workingDirectory string) (*pricing.Table, error) {
	if pricingFile == "" {
		return pricing.Default()
	}
	if !filepath.IsAbs(pricingFile) {
		pricingFile = filepath.Join(workingDirectory, pricingFile)
	}
	return pricing.LoadFile(pricingFile)
}

func resolveWorkingDirectory(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(errorWorkingDirectoryFormat, err)
	}
	return workingDirectory, nil
}

// resolveScanRoot converts the input path to absolute form and validates that
// it is an existing directory. Relative paths resolve against workingDirectory.
func resolveScanRoot(inputPath string, workingDirectory string) (types.ValidatedPath, error) {
	candidate := inputPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(workingDirectory, candidate)
	}
	absolutePath, absolutePathError := filepath.Abs(candidate)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	info, statError := os.Stat(absolutePath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return types.ValidatedPath{}, &InvalidPathError{Path: inputPath}
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, inputPath, statError)
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, &InvalidPathError{Path: inputPath, NotDirectory: true}
	}
	return types.ValidatedPath{AbsolutePath: absolutePath, DisplayPath: inputPath}, nil
}
