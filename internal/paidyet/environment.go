package paidyet

import "fmt"

// Environment selects which PaidYET API deployment calls are sent to.
type Environment string

const (
	Production Environment = "production"
	Sandbox    Environment = "sandbox"
)

// ParseEnvironment maps the config string to an Environment.
// An empty value defaults to production, matching the plugin's behavior.
func ParseEnvironment(s string) (Environment, error) {
	switch s {
	case "", "production":
		return Production, nil
	case "sandbox":
		return Sandbox, nil
	default:
		return "", fmt.Errorf("unknown environment %q", s)
	}
}

// BaseURL returns the API root for the environment.
func (e Environment) BaseURL() string {
	if e == Sandbox {
		return "https://api.sandbox-paidyet.com/v3"
	}
	return "https://api.paidyet.com/v3"
}

// LoginURL returns the token issuance endpoint for the environment.
func (e Environment) LoginURL() string {
	return e.BaseURL() + "/login"
}
