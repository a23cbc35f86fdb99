package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pojntfx/deskgen/pkg/desktop"
)

const tomlManifest = `domain = "example"

[[record]]
output = "panels/color/cinnamon-color-panel.desktop.in.in"
name = "Color"
comment = "Color management settings"
prefix = '''
[Desktop Entry]
Exec=tool
'''

[[record]]
output = "/abs/cinnamon-power-panel.desktop"
name = "Power"
comment = "Power management settings"
keywords = "Power;Sleep;"
translate_keywords = true
suffix = "NoDisplay=true\n"
`

const yamlManifest = `records: ignored
`

func ptr(s string) *string {
	return &s
}

func TestParseTOML(t *testing.T) {
	m, err := Parse([]byte(tomlManifest), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}

	if m.Domain != "example" {
		t.Errorf("Domain = %q, want example", m.Domain)
	}

	want := []desktop.RecordSpec{
		{
			OutputPath:  filepath.Join("/build", "panels/color/cinnamon-color-panel.desktop.in.in"),
			PrefixBlock: "[Desktop Entry]\nExec=tool\n",
			Name:        "Color",
			Comment:     "Color management settings",
		},
		{
			OutputPath:        "/abs/cinnamon-power-panel.desktop",
			Name:              "Power",
			Comment:           "Power management settings",
			Keywords:          ptr("Power;Sleep;"),
			TranslateKeywords: true,
			SuffixBlock:       "NoDisplay=true\n",
		},
	}

	if diff := cmp.Diff(want, m.Specs("/build")); diff != "" {
		t.Errorf("Specs() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAML(t *testing.T) {
	m, err := Parse([]byte(`
record:
  - output: cinnamon-network-panel.desktop
    name: Network
    comment: Network settings
    prefix: |
      [Desktop Entry]
      Exec=cinnamon-settings network
    keywords: ""
`), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}

	want := []desktop.RecordSpec{
		{
			OutputPath:  filepath.Join("out", "cinnamon-network-panel.desktop"),
			PrefixBlock: "[Desktop Entry]\nExec=cinnamon-settings network\n",
			Name:        "Network",
			Comment:     "Network settings",
			Keywords:    ptr(""),
		},
	}

	if diff := cmp.Diff(want, m.Specs("out")); diff != "" {
		t.Errorf("Specs() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
	}{
		{"unknown format", tomlManifest, Format("ini"), ErrUnknownFormat},
		{"no records", `domain = "x"`, FormatTOML, ErrNoRecords},
		{"missing output", "[[record]]\nname = \"a\"\ncomment = \"b\"\n", FormatTOML, errMissingOutput},
		{"missing name", "[[record]]\noutput = \"a\"\ncomment = \"b\"\n", FormatTOML, errMissingName},
		{"missing comment", "[[record]]\noutput = \"a\"\nname = \"b\"\n", FormatTOML, errMissingComment},
		{
			"duplicated output",
			"[[record]]\noutput = \"a/b\"\nname = \"a\"\ncomment = \"b\"\n[[record]]\noutput = \"a//b\"\nname = \"c\"\ncomment = \"d\"\n",
			FormatTOML,
			errDuplicatedOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), tt.format); !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, tt := range []struct {
		name   string
		data   string
		format Format
	}{
		{"invalid TOML", "[[record]\n", FormatTOML},
		{"invalid YAML", "record: [", FormatYAML},
		{"unknown key", yamlManifest, FormatYAML},
		{"wrong type", "[[record]]\noutput = 1\nname = \"a\"\ncomment = \"b\"\n", FormatTOML},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), tt.format); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"panels.toml", FormatTOML, false},
		{"panels.YAML", FormatYAML, false},
		{"dir/panels.yml", FormatYAML, false},
		{"panels.json", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}

		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.toml")
	if err := os.WriteFile(path, []byte(tomlManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Records) != 2 {
		t.Errorf("Load() returned %v records, want 2", len(m.Records))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestDefault(t *testing.T) {
	m, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	if m.Domain != "cinnamon-control-center" {
		t.Errorf("Domain = %q, want cinnamon-control-center", m.Domain)
	}

	if len(m.Records) != 11 {
		t.Fatalf("Default() has %v records, want 11", len(m.Records))
	}

	for _, record := range m.Records {
		if !strings.HasPrefix(record.Prefix, "[Desktop Entry]\n") {
			t.Errorf("%v: prefix does not start with the group header: %q", record.Output, record.Prefix)
		}

		if !strings.HasSuffix(record.Prefix, "\n") {
			t.Errorf("%v: prefix does not end with a newline", record.Output)
		}

		if record.Keywords != nil || record.Suffix != "" {
			t.Errorf("%v: unexpected keywords or suffix", record.Output)
		}
	}

	color := m.Records[2]
	if color.Name != "Color" || color.Comment != "Color management settings" || color.Output != "panels/color/cinnamon-color-panel.desktop.in.in" {
		t.Errorf("unexpected color record %+v", color)
	}
}
