// Package pricing holds the per-model token prices used for cost estimates.
// The table is versioned YAML data; the built-in copy is embedded and an
// external file with the same schema can replace it.
package pricing

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var embeddedTable []byte

const (
	tokensPerMillion = 1_000_000

	unknownModelErrorFormat   = "Unknown model: %s. Available models: %s"
	errorDecodeTableFormat    = "decode pricing table: %w"
	errorReadTableFormat      = "read pricing table %s: %w"
	errorDuplicateModelFormat = "pricing table lists model %q twice"
	errorNegativeCostFormat   = "pricing table has a negative cost for model %q"
	errorMissingDefaultFormat = "pricing table default model %q is not listed"
	errorMissingModelID       = "pricing table has a model without an id"
	errorEmptyTable           = "pricing table lists no models"

	modelListLineFormat = "  %-20s - %-20s ($%s/$%s per 1M)"
	openAIPrefixGPT     = "gpt"
	openAIPrefixO       = "o"
)

// Model is the price of one model in US dollars per million tokens.
type Model struct {
	ID                   string  `yaml:"id"`
	Name                 string  `yaml:"name"`
	InputCostPerMillion  float64 `yaml:"input_cost"`
	OutputCostPerMillion float64 `yaml:"output_cost"`
}

// Tier groups model ids for the model listing.
type Tier struct {
	Name   string   `yaml:"name"`
	Models []string `yaml:"models"`
}

// Table is a versioned pricing table.
type Table struct {
	Version      string  `yaml:"version"`
	DefaultModel string  `yaml:"default_model"`
	Models       []Model `yaml:"models"`
	Tiers        []Tier  `yaml:"tiers"`
}

// Estimate is the cost of sending and receiving the same number of tokens.
type Estimate struct {
	Input  float64
	Output float64
}

// Total returns the combined input and output cost.
func (estimate Estimate) Total() float64 {
	return estimate.Input + estimate.Output
}

// UnknownModelError is returned by Lookup for an id missing from the table.
type UnknownModelError struct {
	ID        string
	Available []string
}

func (unknownError *UnknownModelError) Error() string {
	return fmt.Sprintf(unknownModelErrorFormat, unknownError.ID, strings.Join(unknownError.Available, ", "))
}

// Default returns the embedded pricing table.
func Default() (*Table, error) {
	return Parse(embeddedTable)
}

// LoadFile reads a pricing table from path.
//
// #nosec G304
func LoadFile(path string) (*Table, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return nil, fmt.Errorf(errorReadTableFormat, path, readError)
	}
	return Parse(content)
}

// Parse decodes and validates a YAML pricing table.
func Parse(content []byte) (*Table, error) {
	var table Table
	if decodeError := yaml.Unmarshal(content, &table); decodeError != nil {
		return nil, fmt.Errorf(errorDecodeTableFormat, decodeError)
	}
	if validationError := table.validate(); validationError != nil {
		return nil, validationError
	}
	return &table, nil
}

func (table *Table) validate() error {
	if len(table.Models) == 0 {
		return errors.New(errorEmptyTable)
	}
	seen := make(map[string]struct{}, len(table.Models))
	for _, model := range table.Models {
		if model.ID == "" {
			return errors.New(errorMissingModelID)
		}
		if _, duplicate := seen[model.ID]; duplicate {
			return fmt.Errorf(errorDuplicateModelFormat, model.ID)
		}
		if model.InputCostPerMillion < 0 || model.OutputCostPerMillion < 0 {
			return fmt.Errorf(errorNegativeCostFormat, model.ID)
		}
		seen[model.ID] = struct{}{}
	}
	if table.DefaultModel == "" {
		table.DefaultModel = table.Models[0].ID
	}
	if _, exists := seen[table.DefaultModel]; !exists {
		return fmt.Errorf(errorMissingDefaultFormat, table.DefaultModel)
	}
	return nil
}

// Lookup returns the model for id, or the default model when id is empty.
func (table *Table) Lookup(id string) (Model, error) {
	resolvedID := table.ResolveID(id)
	for _, model := range table.Models {
		if model.ID == resolvedID {
			return model, nil
		}
	}
	return Model{}, &UnknownModelError{ID: resolvedID, Available: table.ListModels()}
}

// ResolveID returns id, or the default model id when id is empty.
func (table *Table) ResolveID(id string) string {
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		return trimmed
	}
	return table.DefaultModel
}

// ListModels returns every model id in table order.
func (table *Table) ListModels() []string {
	identifiers := make([]string, 0, len(table.Models))
	for _, model := range table.Models {
		identifiers = append(identifiers, model.ID)
	}
	return identifiers
}

// FormatModelList renders the models grouped by tier. Ids a tier names but
// the table lacks are left out.
func (table *Table) FormatModelList() string {
	modelsByID := make(map[string]Model, len(table.Models))
	for _, model := range table.Models {
		modelsByID[model.ID] = model
	}

	groups := make([]string, 0, len(table.Tiers))
	for _, tier := range table.Tiers {
		var lines []string
		for _, id := range tier.Models {
			model, exists := modelsByID[id]
			if !exists {
				continue
			}
			lines = append(lines, fmt.Sprintf(modelListLineFormat, id, model.Name, FormatPrice(model.InputCostPerMillion), FormatPrice(model.OutputCostPerMillion)))
		}
		groups = append(groups, "\n"+tier.Name+":\n"+strings.Join(lines, "\n"))
	}
	return strings.Join(groups, "\n")
}

// EstimateCost prices tokens as input and the same amount again as output.
func EstimateCost(tokens int, model Model) Estimate {
	millions := float64(tokens) / tokensPerMillion
	return Estimate{
		Input:  millions * model.InputCostPerMillion,
		Output: millions * model.OutputCostPerMillion,
	}
}

// FormatPrice renders a per-million price with the shortest exact decimal
// form, so 15 prints as "15" and 0.25 as "0.25".
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// IsOpenAIModel reports whether the o200k_base token count is native for id.
func IsOpenAIModel(id string) bool {
	return strings.HasPrefix(id, openAIPrefixGPT) || strings.HasPrefix(id, openAIPrefixO)
}
