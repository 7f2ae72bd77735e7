package environment

import (
	"fmt"
	"strings"

	apperrors "github.com/amaumene/coffeeshop/pkg/errors"
)

// Environment is a deployment target.
type Environment int

const (
	Development Environment = iota
	Production
)

func (e Environment) String() string {
	switch e {
	case Development:
		return "development"
	case Production:
		return "production"
	default:
		return fmt.Sprintf("Environment(%d)", int(e))
	}
}

// ParseEnvironment resolves a deployment target name. The short forms "dev"
// and "prod" are accepted as well.
func ParseEnvironment(name string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "development", "dev":
		return Development, nil
	case "production", "prod":
		return Production, nil
	default:
		return Development, fmt.Errorf("%w: %q", apperrors.ErrUnknownEnvironment, name)
	}
}

// ForEnvironment returns the predefined settings for env.
func ForEnvironment(env Environment) Config {
	if env == Production {
		return ProductionConfig()
	}
	return DevelopmentConfig()
}

// Selected returns the variant compiled into this binary.
func Selected() Config {
	return ForEnvironment(BuildEnvironment())
}
