package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName               = "bool"
	booleanFlagTrueLiteral            = "true"
	booleanFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueErrorLabel = "invalid boolean value"
	booleanFlagPrefix                 = "--"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// booleanFlagValue accepts the literals above so "--no-json no" and
// "--no-json=off" both work.
type booleanFlagValue struct {
	target  *bool
	flagKey string
}

func (value *booleanFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, ok := booleanFlagLiterals[normalized]
	if !ok {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", booleanFlagInvalidValueErrorLabel, input, value.flagKey, booleanFlagAcceptedValuesListing)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag registers target under every name in names. The first
// name is the primary flag; the others are aliases sharing the same value.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, defaultValue bool, usage string, names ...string) {
	if flagSet == nil || target == nil || len(names) == 0 {
		return
	}
	*target = defaultValue
	for index, name := range names {
		flagUsage := usage
		if index > 0 {
			flagUsage = fmt.Sprintf("alias for --%s", names[0])
		}
		flagSet.Var(&booleanFlagValue{target: target, flagKey: name}, name, flagUsage)
		if lookup := flagSet.Lookup(name); lookup != nil {
			lookup.DefValue = strconv.FormatBool(defaultValue)
			lookup.NoOptDefVal = booleanFlagTrueLiteral
		}
	}
}

// anyFlagChanged reports whether any of names was set on the command line.
func anyFlagChanged(flagSet *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if flagSet.Changed(name) {
			return true
		}
	}
	return false
}

// normalizeBooleanFlagArguments joins "--flag <literal>" into "--flag=<literal>"
// for boolean flags, since pflag never consumes a separate value for flags
// with a no-option default.
func normalizeBooleanFlagArguments(flagSet *pflag.FlagSet, arguments []string) []string {
	if flagSet == nil || len(arguments) == 0 {
		return arguments
	}
	booleanFlags := map[string]struct{}{}
	flagSet.VisitAll(func(flag *pflag.Flag) {
		if flag.Value != nil && flag.Value.Type() == booleanFlagTypeName {
			booleanFlags[flag.Name] = struct{}{}
		}
	})

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == booleanFlagPrefix {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(currentArgument, booleanFlagPrefix) && !strings.Contains(currentArgument, "=") && index+1 < len(arguments) {
			flagName := strings.TrimPrefix(currentArgument, booleanFlagPrefix)
			nextArgument := arguments[index+1]
			if _, isBoolean := booleanFlags[flagName]; isBoolean {
				if _, isLiteral := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; isLiteral {
					normalized = append(normalized, currentArgument+"="+nextArgument)
					index++
					continue
				}
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}
