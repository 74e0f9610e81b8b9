package displaygen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// ConfigFileNames are looked up, in order, by [FindConfigFile].
var ConfigFileNames = []string{".displaydoc.yaml", ".displaydoc.yml", ".displaydoc.toml"}

// FileConfig is the content of a displaydoc config file. Unset fields keep
// their flag defaults.
type FileConfig struct {
	Output   string   `json:"output,omitempty"   jsonschema:"generated file name; %s is replaced by the package name"  toml:"output"   yaml:"output,omitempty"`
	Receiver string   `json:"receiver,omitempty" jsonschema:"receiver name of generated methods"                       toml:"receiver" yaml:"receiver,omitempty"`
	Types    []string `json:"types,omitempty"    jsonschema:"type names to generate without a directive"               toml:"types"    yaml:"types,omitempty"`
	Error    *bool    `json:"error,omitempty"    jsonschema:"also generate Error methods"                              toml:"error"    yaml:"error,omitempty"`
	Jobs     *int     `json:"jobs,omitempty"     jsonschema:"maximum concurrent packages and declarations"             toml:"jobs"     yaml:"jobs,omitempty"`
}

// FindConfigFile returns the first of [ConfigFileNames] present in dir, or
// "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)

		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path
		}
	}

	return ""
}

// LoadConfigFile reads a YAML or TOML config file, chosen by extension.
// Unknown keys are an error.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFile, err)
	}

	var fc FileConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalWithOptions(data, &fc, yaml.Strict())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigFile, path, err)
		}

	case ".toml":
		meta, err := toml.Decode(string(data), &fc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigFile, path, err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: %s: unknown key %q", ErrConfigFile, path, undecoded[0].String())
		}

	default:
		return nil, fmt.Errorf("%w: %s: unsupported extension", ErrConfigFile, path)
	}

	return &fc, nil
}

// FileSchema returns the JSON Schema of [FileConfig], indented.
func FileSchema() ([]byte, error) {
	schema, err := jsonschema.For[FileConfig](nil)
	if err != nil {
		return nil, fmt.Errorf("%w: schema: %w", ErrConfigFile, err)
	}

	schema.Title = "displaydoc configuration"

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: schema: %w", ErrConfigFile, err)
	}

	return append(out, '\n'), nil
}
