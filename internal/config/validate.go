package config

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

const rootField = "(root)"

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
})

// ValidateSettings checks the settings read from a config file. Every problem
// is reported against its dotted key, e.g. "log.level: ...".
func ValidateSettings(settings map[string]any) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("load config schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(settings))
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		problems = append(problems, settingKey(resErr)+": "+resErr.Description())
	}
	slices.Sort(problems)

	return fmt.Errorf("invalid config: %s", strings.Join(slices.Compact(problems), "; "))
}

// settingKey names the offending key. Unknown and missing properties are
// reported by gojsonschema on their parent object.
func settingKey(resErr gojsonschema.ResultError) string {
	key := resErr.Field()
	prop, ok := resErr.Details()["property"].(string)
	if !ok || prop == "" {
		return key
	}
	if key == rootField {
		return prop
	}
	return key + "." + prop
}
