package bwcdkutil

import (
	"fmt"

	"github.com/aws/constructs-go/constructs/v10"
	"github.com/iancoleman/strcase"
)

// Casing specifies how to format the identifier string.
type Casing int

const (
	// CasingCamel formats as CamelCase (e.g., "RiowonderDevApiGateway").
	CasingCamel Casing = iota
	// CasingLowerCamel formats as lowerCamelCase (e.g., "riowonderDevApiGateway").
	CasingLowerCamel
	// CasingSnake formats as snake_case (e.g., "riowonder_dev_api_gateway").
	CasingSnake
	// CasingScreamingSnake formats as SCREAMING_SNAKE_CASE (e.g., "RIOWONDER_DEV_API_GATEWAY").
	CasingScreamingSnake
	// CasingKebab formats as kebab-case (e.g., "riowonder-dev-api-gateway").
	CasingKebab
	// CasingScreamingKebab formats as SCREAMING-KEBAB-CASE (e.g., "RIOWONDER-DEV-API-GATEWAY").
	CasingScreamingKebab
)

// ResourceName generates a resource identifier prefixed with the project name and
// the environment of the enclosing stack. The label is a free-form string that the
// caller provides.
//
// The format is: "{project}-{env}-{label}" converted to the specified casing, where env
// is the lower-cased deployment identifier or the qualifier in shared stacks.
//
// Examples with project "riowonder", deployment "Dev", label "BuildProject":
//   - CasingCamel:          "RiowonderDevBuildProject"
//   - CasingLowerCamel:     "riowonderDevBuildProject"
//   - CasingSnake:          "riowonder_dev_build_project"
//   - CasingScreamingSnake: "RIOWONDER_DEV_BUILD_PROJECT"
//   - CasingKebab:          "riowonder-dev-build-project"
//   - CasingScreamingKebab: "RIOWONDER-DEV-BUILD-PROJECT"
func ResourceName(scope constructs.Construct, label string, casing Casing) string {
	base := fmt.Sprintf("%s-%s-%s", ProjectName(scope), EnvName(scope), label)
	return applyCasing(base, casing)
}

func applyCasing(s string, casing Casing) string {
	switch casing {
	case CasingCamel:
		return strcase.ToCamel(s)
	case CasingLowerCamel:
		return strcase.ToLowerCamel(s)
	case CasingSnake:
		return strcase.ToSnake(s)
	case CasingScreamingSnake:
		return strcase.ToScreamingSnake(s)
	case CasingKebab:
		return strcase.ToKebab(s)
	case CasingScreamingKebab:
		return strcase.ToScreamingKebab(s)
	default:
		return strcase.ToCamel(s)
	}
}
