package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when the specified path is not found in the YAML document.
var ErrPathNotFound = errors.New("path not found")

// ErrNotMapping is returned by Strings when the selected node is not a mapping.
var ErrNotMapping = errors.New("node is not a mapping")

// Parser implements settings.Parser for YAML data.
type Parser struct{}

// NewParser creates a new YAML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse unmarshals the node at path into target. Empty path parses the entire document.
func (p *Parser) Parse(data []byte, target any, path string) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	if path == "" {
		err := yaml.Unmarshal(data, target)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	pathObj, err := yaml.PathString(convertToYAMLPath(path))
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	err = pathObj.Read(bytes.NewReader(data), target)
	if err != nil {
		if yaml.IsNotFoundNodeError(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		return fmt.Errorf("reading path %q: %w", path, err)
	}

	return nil
}

// Strings parses the mapping at path and returns it as wire strings.
// Null values become empty strings.
func (p *Parser) Strings(data []byte, path string) (map[string]string, error) {
	var node map[string]any

	err := p.Parse(data, &node, path)
	if err != nil {
		return nil, err
	}

	if node == nil {
		return nil, ErrNotMapping
	}

	out := make(map[string]string, len(node))

	for key, value := range node {
		wire, err := toWireString(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		out[key] = wire
	}

	return out, nil
}

func toWireString(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case bool:
		return strconv.FormatBool(typed), nil
	case int:
		return strconv.Itoa(typed), nil
	case int64:
		return strconv.FormatInt(typed, 10), nil
	case uint64:
		return strconv.FormatUint(typed, 10), nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	case map[string]any, []any:
		encoded, err := gojson.Marshal(typed)
		if err != nil {
			return "", fmt.Errorf("encoding structured value: %w", err)
		}

		return string(encoded), nil
	default:
		return fmt.Sprint(typed), nil
	}
}

// convertToYAMLPath converts a colon-separated path to goccy/go-yaml PathString format.
// Examples:
//   - "key" -> "$.key"
//   - "app:rc" -> "$.app.rc"
func convertToYAMLPath(path string) string {
	return "$." + strings.Join(strings.Split(path, ":"), ".")
}
