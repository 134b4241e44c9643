package model

import (
	"fmt"
	"strings"
)

// FrameworkKind identifies the frontend framework detected in a project
// directory. It is determined once per run from filesystem markers and is
// immutable afterwards.
type FrameworkKind string

const (
	// FrameworkReact is a project whose package.json depends on react.
	FrameworkReact FrameworkKind = "react"

	// FrameworkAngular is a project with an angular.json workspace file.
	FrameworkAngular FrameworkKind = "angular"

	// FrameworkVue is a project with vue.config.js or a src/main.js entry point.
	FrameworkVue FrameworkKind = "vue"

	// FrameworkNext is a project with a next.config.js file.
	FrameworkNext FrameworkKind = "next"

	// FrameworkNone means no known framework marker was found.
	FrameworkNone FrameworkKind = "none"
)

// String returns the string representation of FrameworkKind.
func (k FrameworkKind) String() string {
	return string(k)
}

// IsValid checks whether the FrameworkKind value is one of the predefined
// kinds. FrameworkNone is a valid detection result even though no dev
// server command exists for it.
func (k FrameworkKind) IsValid() bool {
	switch k {
	case FrameworkReact, FrameworkAngular, FrameworkVue, FrameworkNext, FrameworkNone:
		return true
	default:
		return false
	}
}

// Detected reports whether k names an actual framework.
func (k FrameworkKind) Detected() bool {
	return k.IsValid() && k != FrameworkNone
}

// Provider identifies the remote language-model service used to analyze
// captured logs.
type Provider string

const (
	// ProviderGemini is the Gemini analysis service.
	ProviderGemini Provider = "gemini"

	// ProviderOpenAI is the OpenAI completion service.
	ProviderOpenAI Provider = "openai"
)

// Providers lists every supported provider in prompt order.
var Providers = []Provider{ProviderGemini, ProviderOpenAI}

// String returns the string representation of Provider.
func (p Provider) String() string {
	return string(p)
}

// IsValid checks whether the Provider value is one of the supported providers.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI:
		return true
	default:
		return false
	}
}

// DisplayName returns the label shown in the interactive provider prompt.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGemini:
		return "Gemini"
	case ProviderOpenAI:
		return "OpenAI"
	default:
		return string(p)
	}
}

// APIKeyEnv returns the name of the environment variable holding the
// provider's API key, e.g. "GEMINI_API_KEY".
func (p Provider) APIKeyEnv() string {
	return strings.ToUpper(string(p)) + "_API_KEY"
}

// ParseProvider converts a string to a Provider. Matching is
// case-insensitive, so both prompt labels ("OpenAI") and flag values
// ("openai") are accepted.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid provider: %q (valid: gemini, openai)", s)
	}
	return p, nil
}
