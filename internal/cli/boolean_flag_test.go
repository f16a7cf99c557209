package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/pflag"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		arguments     []string
		expected      bool
		expectChanged bool
		expectError   bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "sets_true_without_value", arguments: []string{"--no-json"}, expected: true, expectChanged: true},
		{name: "sets_false_with_equals", arguments: []string{"--no-json=false"}, expected: false, expectChanged: true},
		{name: "sets_false_with_no_literal", arguments: []string{"--no-json", "no"}, expected: false, expectChanged: true},
		{name: "sets_true_with_on_literal", arguments: []string{"--no-json", "on"}, expected: true, expectChanged: true},
		{name: "leaves_positional_path", arguments: []string{"--no-json", "./src"}, expected: true, expectChanged: true},
		{name: "alias_sets_shared_target", arguments: []string{"--no-md"}, expected: true, expectChanged: true},
		{name: "rejects_unknown_literal", arguments: []string{"--no-json=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			flagSet := pflag.NewFlagSet("boolean-test", pflag.ContinueOnError)
			var jsonDisabled bool
			registerBooleanFlag(flagSet, &jsonDisabled, false, "skip json", "no-json", "no-md")
			parseErr := flagSet.Parse(normalizeBooleanFlagArguments(flagSet, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if jsonDisabled != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, jsonDisabled)
			}
			if changed := anyFlagChanged(flagSet, "no-json", "no-md"); changed != testCase.expectChanged {
				t.Fatalf("expected changed=%t, got %t", testCase.expectChanged, changed)
			}
		})
	}
}

func TestNormalizeBooleanFlagArgumentsStopsAtTerminator(t *testing.T) {
	flagSet := pflag.NewFlagSet("boolean-test", pflag.ContinueOnError)
	var enabled bool
	registerBooleanFlag(flagSet, &enabled, false, "copy", "copy")
	flagSet.String("model", "", "model")

	actual := normalizeBooleanFlagArguments(flagSet, []string{"--copy", "yes", "--model", "no", "--", "--copy", "no"})
	expected := []string{"--copy=yes", "--model", "no", "--", "--copy", "no"}
	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}
