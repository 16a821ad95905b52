// config.go reads client defaults from the process environment.

package raven

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvEnvironment = "SENTRY_ENVIRONMENT"
	EnvRelease     = "SENTRY_RELEASE"
	EnvServerName  = "SENTRY_SERVER_NAME"
	EnvSampleRate  = "SENTRY_SAMPLE_RATE"
)

// OptionsFromEnv returns options for the variables that are set. An
// unparsable sample rate is ignored.
func OptionsFromEnv() []Option {
	return optionsFromLookup(os.LookupEnv)
}

func optionsFromLookup(lookup func(string) (string, bool)) []Option {
	var opts []Option
	if v, ok := lookup(EnvEnvironment); ok && v != "" {
		opts = append(opts, WithEnvironment(v))
	}
	if v, ok := lookup(EnvRelease); ok && v != "" {
		opts = append(opts, WithRelease(v))
	}
	if v, ok := lookup(EnvServerName); ok && v != "" {
		opts = append(opts, WithServerName(v))
	}
	if v, ok := lookup(EnvSampleRate); ok {
		if rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			opts = append(opts, WithSampleRate(rate))
		}
	}
	return opts
}
