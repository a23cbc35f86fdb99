package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/pojntfx/deskgen/assets/resources"
	"github.com/pojntfx/deskgen/pkg/desktop"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var (
	ErrUnknownFormat = errors.New("could not detect manifest format")
	ErrNoRecords     = errors.New("could not find any records in manifest")

	errMissingOutput    = errors.New("record is missing an output path")
	errMissingName      = errors.New("record is missing a name")
	errMissingComment   = errors.New("record is missing a comment")
	errDuplicatedOutput = errors.New("record output path is already used by another record")
)

type Record struct {
	Output            string  `mapstructure:"output"`
	Prefix            string  `mapstructure:"prefix"`
	Name              string  `mapstructure:"name"`
	Comment           string  `mapstructure:"comment"`
	Keywords          *string `mapstructure:"keywords"`
	TranslateKeywords bool    `mapstructure:"translate_keywords"`
	Suffix            string  `mapstructure:"suffix"`
}

// Manifest is the table of descriptors one generation run produces.
type Manifest struct {
	// Domain overrides the configured text domain when set.
	Domain  string   `mapstructure:"domain"`
	Records []Record `mapstructure:"record"`
}

func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownFormat, path)
	}
}

// Parse decodes and validates a manifest. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Manifest, error) {
	raw := map[string]any{}

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("could not parse TOML manifest: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("could not parse YAML manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}

	var m Manifest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &m,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("could not decode manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read manifest: %w", err)
	}

	return Parse(data, format)
}

// Default returns the embedded control center panel table.
func Default() (*Manifest, error) {
	format, err := FormatFromPath(resources.DefaultManifestName)
	if err != nil {
		return nil, err
	}

	return Parse(resources.DefaultManifest, format)
}

func (m *Manifest) Validate() error {
	if len(m.Records) == 0 {
		return ErrNoRecords
	}

	outputs := map[string]int{}
	for i, record := range m.Records {
		switch {
		case strings.TrimSpace(record.Output) == "":
			return fmt.Errorf("record %v: %w", i, errMissingOutput)
		case record.Name == "":
			return fmt.Errorf("record %v (%v): %w", i, record.Output, errMissingName)
		case record.Comment == "":
			return fmt.Errorf("record %v (%v): %w", i, record.Output, errMissingComment)
		}

		output := filepath.Clean(record.Output)
		if previous, ok := outputs[output]; ok {
			return fmt.Errorf("record %v (%v): %w (record %v)", i, record.Output, errDuplicatedOutput, previous)
		}

		outputs[output] = i
	}

	return nil
}

// Specs converts the records to renderer input. Relative output paths are
// resolved against baseDir.
func (m *Manifest) Specs(baseDir string) []desktop.RecordSpec {
	specs := make([]desktop.RecordSpec, 0, len(m.Records))
	for _, record := range m.Records {
		output := record.Output
		if !filepath.IsAbs(output) {
			output = filepath.Join(baseDir, output)
		}

		specs = append(specs, desktop.RecordSpec{
			OutputPath:        output,
			PrefixBlock:       record.Prefix,
			Name:              record.Name,
			Comment:           record.Comment,
			Keywords:          record.Keywords,
			TranslateKeywords: record.TranslateKeywords,
			SuffixBlock:       record.Suffix,
		})
	}

	return specs
}
