package diagnostics

import (
	"fmt"
	"strings"
)

// Environment is one of the fixed hosting regions that publish a diagnostics
// document.
type Environment int

const (
	Public Environment = iota
	Fairfax
	Mooncake
)

// DefaultEnvironment is selected when a session starts.
const DefaultEnvironment = Public

const (
	publicURL   = "https://hosting.portal.azure.net/api/diagnostics"
	fairfaxURL  = "https://hosting.azureportal.usgovcloudapi.net/api/diagnostics"
	mooncakeURL = "https://hosting.azureportal.chinacloudapi.cn/api/diagnostics"
)

// Environments lists every environment in menu order.
func Environments() []Environment {
	return []Environment{Public, Fairfax, Mooncake}
}

// URL returns the diagnostics endpoint for the environment.
func (e Environment) URL() string {
	switch e {
	case Fairfax:
		return fairfaxURL
	case Mooncake:
		return mooncakeURL
	default:
		return publicURL
	}
}

// Label is the human readable name shown in menus.
func (e Environment) Label() string {
	switch e {
	case Public:
		return "Public Cloud"
	case Fairfax:
		return "Fairfax"
	case Mooncake:
		return "Mooncake"
	default:
		return "Select environment"
	}
}

// Key is the short identifier used in flags and config files.
func (e Environment) Key() string {
	switch e {
	case Fairfax:
		return "fairfax"
	case Mooncake:
		return "mooncake"
	default:
		return "public"
	}
}

func (e Environment) String() string {
	return e.Key()
}

// ParseEnvironment accepts a key ("fairfax") or a label ("Public Cloud").
func ParseEnvironment(value string) (Environment, error) {
	trimmed := strings.TrimSpace(value)
	for _, env := range Environments() {
		if strings.EqualFold(trimmed, env.Key()) || strings.EqualFold(trimmed, env.Label()) {
			return env, nil
		}
	}
	return DefaultEnvironment, fmt.Errorf("unknown environment %q", value)
}
