package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue   = "true"
	toggleFalseCanonicalValue  = "false"
	toggleYesLiteral           = "yes"
	toggleNoLiteral            = "no"
	toggleParseErrorTemplate   = "invalid toggle value %q (expected yes or no)"
	toggleFlagTypeConstant     = "bool"
	longFlagPrefixConstant     = "--"
	shortFlagPrefixConstant    = "-"
	flagValueSeparatorConstant = "="
)

var (
	trueLiteralSet  = map[string]struct{}{toggleTrueCanonicalValue: {}, toggleYesLiteral: {}, "on": {}, "1": {}, "y": {}, "t": {}}
	falseLiteralSet = map[string]struct{}{toggleFalseCanonicalValue: {}, toggleNoLiteral: {}, "off": {}, "0": {}, "n": {}, "f": {}}

	toggleFlagRegistryMutex sync.RWMutex
	toggleFlagNames         = map[string]struct{}{}
)

// AddToggleFlag registers a boolean flag that also accepts yes/no style values.
// The flag reports type "bool", so pflag's GetBool reads it.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagSet.Var(newToggleFlagValue(defaultValue, target), name, usage)
	flag := flagSet.Lookup(name)
	if flag == nil {
		return
	}
	flag.NoOptDefVal = toggleTrueCanonicalValue
	flag.Usage = formatToggleUsage(usage, defaultValue)

	toggleFlagRegistryMutex.Lock()
	defer toggleFlagRegistryMutex.Unlock()
	toggleFlagNames[name] = struct{}{}
}

func formatToggleUsage(description string, defaultValue bool) string {
	defaultChoice := toggleNoLiteral
	if defaultValue {
		defaultChoice = toggleYesLiteral
	}
	return FormatChoiceUsage(defaultChoice, []string{toggleYesLiteral, toggleNoLiteral}, strings.TrimSpace(description))
}

// NormalizeToggleArguments rewrites "--flag value" into "--flag=value" for registered toggle flags
// so that a bare value after the flag is not mistaken for a positional argument.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == longFlagPrefixConstant {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		if isBareToggleFlag(current) && index+1 < len(arguments) && isToggleLiteral(arguments[index+1]) {
			normalized = append(normalized, current+flagValueSeparatorConstant+arguments[index+1])
			index++
			continue
		}

		normalized = append(normalized, current)
	}

	return normalized
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleFlagValue{currentValue: defaultValue, target: target}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggleValue(rawValue)
	if parseError != nil {
		return parseError
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || !value.currentValue {
		return toggleFalseCanonicalValue
	}
	return toggleTrueCanonicalValue
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeConstant
}

func parseToggleValue(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	if _, isTrue := trueLiteralSet[normalizedValue]; isTrue {
		return true, nil
	}
	if _, isFalse := falseLiteralSet[normalizedValue]; isFalse {
		return false, nil
	}
	return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
}

func isBareToggleFlag(argument string) bool {
	if !strings.HasPrefix(argument, longFlagPrefixConstant) || strings.Contains(argument, flagValueSeparatorConstant) {
		return false
	}
	toggleFlagRegistryMutex.RLock()
	defer toggleFlagRegistryMutex.RUnlock()
	_, registered := toggleFlagNames[strings.TrimPrefix(argument, longFlagPrefixConstant)]
	return registered
}

func isToggleLiteral(argument string) bool {
	if strings.HasPrefix(argument, shortFlagPrefixConstant) {
		return false
	}
	normalizedValue := strings.ToLower(strings.TrimSpace(argument))
	_, isTrue := trueLiteralSet[normalizedValue]
	_, isFalse := falseLiteralSet[normalizedValue]
	return isTrue || isFalse
}
