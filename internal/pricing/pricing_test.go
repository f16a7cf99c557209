package pricing_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/codemass/internal/pricing"
)

func defaultTable(testingInstance *testing.T) *pricing.Table {
	testingInstance.Helper()
	table, err := pricing.Default()
	if err != nil {
		testingInstance.Fatalf("load embedded table: %v", err)
	}
	return table
}

func TestDefaultTable(testingInstance *testing.T) {
	table := defaultTable(testingInstance)
	if table.Version != "2025-08" {
		testingInstance.Fatalf("unexpected version %q", table.Version)
	}
	if len(table.ListModels()) != 13 {
		testingInstance.Fatalf("expected 13 models, got %d", len(table.ListModels()))
	}
	if table.ListModels()[0] != "opus-4" {
		testingInstance.Fatalf("expected table order to be preserved, got %v", table.ListModels())
	}
}

func TestLookup(testingInstance *testing.T) {
	table := defaultTable(testingInstance)
	testCases := []struct {
		id             string
		expectedName   string
		expectedInput  float64
		expectedOutput float64
	}{
		{id: "", expectedName: "Claude Sonnet 4", expectedInput: 3, expectedOutput: 15},
		{id: "opus-4", expectedName: "Claude Opus 4", expectedInput: 15, expectedOutput: 75},
		{id: "gpt-5-mini", expectedName: "gpt-5-mini", expectedInput: 0.25, expectedOutput: 2},
		{id: "gpt-5-nano", expectedName: "gpt-5-nano", expectedInput: 0.05, expectedOutput: 0.4},
		{id: "gemini-2.5-flash", expectedName: "Gemini 2.5 Flash", expectedInput: 0.3, expectedOutput: 2.5},
	}
	for _, testCase := range testCases {
		model, err := table.Lookup(testCase.id)
		if err != nil {
			testingInstance.Fatalf("Lookup(%q): %v", testCase.id, err)
		}
		if model.Name != testCase.expectedName || model.InputCostPerMillion != testCase.expectedInput || model.OutputCostPerMillion != testCase.expectedOutput {
			testingInstance.Errorf("Lookup(%q): unexpected model %+v", testCase.id, model)
		}
	}
}

func TestLookupUnknownModel(testingInstance *testing.T) {
	table := defaultTable(testingInstance)
	_, err := table.Lookup("unknown-model")
	if err == nil {
		testingInstance.Fatalf("expected an error for an unknown model")
	}
	if !strings.Contains(err.Error(), "Unknown model: unknown-model") {
		testingInstance.Fatalf("unexpected message %q", err.Error())
	}
	if !strings.Contains(err.Error(), "Available models: opus-4, sonnet-4, gpt-5") {
		testingInstance.Fatalf("expected available models in %q", err.Error())
	}
	var unknownError *pricing.UnknownModelError
	if !errors.As(err, &unknownError) || unknownError.ID != "unknown-model" {
		testingInstance.Fatalf("expected UnknownModelError, got %T", err)
	}
}

func TestFormatModelList(testingInstance *testing.T) {
	output := defaultTable(testingInstance).FormatModelList()
	for _, expected := range []string{"Premium:", "Professional:", "Standard:", "Budget:", "Minimal:", "$15/$75 per 1M", "$0.05/$0.4 per 1M"} {
		if !strings.Contains(output, expected) {
			testingInstance.Errorf("expected %q in model list", expected)
		}
	}
	expectedLine := "  opus-4               - Claude Opus 4        ($15/$75 per 1M)"
	if !strings.Contains(output, "\nPremium:\n"+expectedLine+"\n") {
		testingInstance.Fatalf("unexpected premium group in %q", output)
	}
	if strings.Index(output, "sonnet-4") > strings.Index(output, "  o3 ") {
		testingInstance.Fatalf("expected tier order to follow the tier definition")
	}
}

func TestEstimateCost(testingInstance *testing.T) {
	estimate := pricing.EstimateCost(2_000_000, pricing.Model{InputCostPerMillion: 3, OutputCostPerMillion: 15})
	if math.Abs(estimate.Input-6) > 1e-9 || math.Abs(estimate.Output-30) > 1e-9 || math.Abs(estimate.Total()-36) > 1e-9 {
		testingInstance.Fatalf("unexpected estimate %+v", estimate)
	}
	if zero := pricing.EstimateCost(0, pricing.Model{InputCostPerMillion: 3}); zero.Total() != 0 {
		testingInstance.Fatalf("expected zero cost for zero tokens")
	}
}

func TestIsOpenAIModel(testingInstance *testing.T) {
	for id, expected := range map[string]bool{"gpt-5": true, "o3": true, "o4-mini": true, "sonnet-4": false, "gemini-2.5-pro": false, "opus-4": true} {
		if actual := pricing.IsOpenAIModel(id); actual != expected {
			testingInstance.Errorf("IsOpenAIModel(%q): expected %t, got %t", id, expected, actual)
		}
	}
}

func TestFormatPrice(testingInstance *testing.T) {
	for price, expected := range map[float64]string{15: "15", 1.25: "1.25", 0.4: "0.4", 1.1: "1.1"} {
		if actual := pricing.FormatPrice(price); actual != expected {
			testingInstance.Errorf("FormatPrice(%v): expected %s, got %s", price, expected, actual)
		}
	}
}

func TestLoadFile(testingInstance *testing.T) {
	tablePath := filepath.Join(testingInstance.TempDir(), "prices.yaml")
	content := "version: custom\nmodels:\n  - id: local\n    name: Local Model\n    input_cost: 0\n    output_cost: 0\n"
	if err := os.WriteFile(tablePath, []byte(content), 0o600); err != nil {
		testingInstance.Fatalf("write table: %v", err)
	}
	table, err := pricing.LoadFile(tablePath)
	if err != nil {
		testingInstance.Fatalf("load table: %v", err)
	}
	model, lookupErr := table.Lookup("")
	if lookupErr != nil || model.Name != "Local Model" {
		testingInstance.Fatalf("expected first model to become the default, got %+v %v", model, lookupErr)
	}
	if _, err := pricing.LoadFile(filepath.Join(testingInstance.TempDir(), "absent.yaml")); err == nil {
		testingInstance.Fatalf("expected an error for a missing file")
	}
}

func TestParseRejectsInvalidTables(testingInstance *testing.T) {
	testCases := map[string]string{
		"empty":           "version: x\n",
		"duplicate":       "models:\n  - id: a\n  - id: a\n",
		"negative":        "models:\n  - id: a\n    input_cost: -1\n",
		"missing default": "default_model: b\nmodels:\n  - id: a\n",
		"missing id":      "models:\n  - name: nameless\n",
		"malformed":       "models: [",
	}
	for name, content := range testCases {
		if _, err := pricing.Parse([]byte(content)); err == nil {
			testingInstance.Errorf("%s: expected an error", name)
		}
	}
}
