// Package template provides expression evaluation for dynamic execution configuration.
package template

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// Evaluate resolves embedded expressions inside value against data, returning
// a result with the same structural shape. Strings are rendered through the
// template engine; maps and slices are walked recursively; everything else is
// returned untouched. When allowUnresolved is true a string whose expressions
// cannot be parsed or resolved is left as-is instead of failing the walk.
func Evaluate(value any, data map[string]any, allowUnresolved bool) (any, error) {
	switch typed := value.(type) {
	case string:
		if !strings.Contains(typed, "{{") {
			return typed, nil
		}

		rendered, err := Render(typed, data)
		if err != nil {
			// Leaving the expression untouched keeps the value's shape.
			if allowUnresolved {
				return typed, nil
			}

			return nil, err
		}

		return rendered, nil
	case map[string]any:
		out := make(map[string]any, len(typed))

		for key, entry := range typed {
			resolved, err := Evaluate(entry, data, allowUnresolved)
			if err != nil {
				return nil, err
			}

			out[key] = resolved
		}

		return out, nil
	case []any:
		out := make([]any, len(typed))

		for i, entry := range typed {
			resolved, err := Evaluate(entry, data, allowUnresolved)
			if err != nil {
				return nil, err
			}

			out[i] = resolved
		}

		return out, nil
	default:
		return value, nil
	}
}

// Render executes a single template string against data. Rendered output that
// looks like JSON, a number, or a boolean is re-parsed into the typed value so
// expressions can produce more than strings. Missing context keys are an
// error; callers that tolerate unresolved expressions go through Evaluate.
func Render(templateStr string, data map[string]any) (any, error) {
	tmpl := template.
		New("expression").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
			"rand": func(max int) int {
				if max <= 0 {
					return 0
				}

				num := make([]byte, 1)

				_, err := rand.Read(num)
				if err != nil {
					return 0
				}

				return int(num[0]) % max
			},
		})

	tmpl, err := tmpl.Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	result := strings.TrimSpace(buf.String())

	if (strings.HasPrefix(result, "{") && strings.HasSuffix(result, "}")) ||
		(strings.HasPrefix(result, "[") && strings.HasSuffix(result, "]")) {
		var jsonResult any

		err := json.Unmarshal([]byte(result), &jsonResult)
		if err == nil {
			return jsonResult, nil
		}
	}

	if num, err := strconv.ParseFloat(result, 64); err == nil {
		return num, nil
	}

	if b, err := strconv.ParseBool(result); err == nil {
		return b, nil
	}

	return result, nil
}
