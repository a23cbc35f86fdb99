package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pojntfx/deskgen/assets/resources"
)

const (
	VerboseFlag   = "verbose"
	CatalogFlag   = "catalog"
	DomainFlag    = "domain"
	LanguagesFlag = "languages"
	ManifestFlag  = "manifest"
	BaseFlag      = "base"
	JobsFlag      = "jobs"
	StdoutFlag    = "stdout"
	ListFlag      = "list-locales"

	DestDirFlag = "destdir"
	PrefixFlag  = "prefix"
	ToolFlag    = "tool"
	NamesFlag   = "names"
)

const (
	CatalogRootEnv = "DESKGEN_CATALOG_ROOT"
	DomainEnv      = "DESKGEN_DOMAIN"
	LanguagesEnv   = "DESKGEN_LANGUAGES"
	ToolEnv        = "DESKGEN_TOOL"
	PrefixEnv      = "MESON_INSTALL_PREFIX"
	DestDirEnv     = "DESTDIR"
)

type Config struct {
	CatalogRoot string
	Domain      string
	Languages   []string

	Prefix  string
	DestDir string
	Tool    string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first if there is one; variables that are
// already set take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		CatalogRoot: getenv(CatalogRootEnv, resources.DefaultCatalogRoot),
		Domain:      getenv(DomainEnv, resources.DefaultDomain),
		Languages:   SplitList(os.Getenv(LanguagesEnv)),

		Prefix:  os.Getenv(PrefixEnv),
		DestDir: os.Getenv(DestDirEnv),
		Tool:    getenv(ToolEnv, resources.DefaultTool),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Domain) == "" {
		return fmt.Errorf("config: %v can not be blank", DomainEnv)
	}

	if strings.ContainsAny(c.Domain, `/\`) {
		return fmt.Errorf("config: %v must be a text domain name, not a path (%q)", DomainEnv, c.Domain)
	}

	if strings.ContainsAny(c.Tool, `/\`) {
		return fmt.Errorf("config: %v must be a directory name, not a path (%q)", ToolEnv, c.Tool)
	}

	return nil
}

// SplitList splits a comma- or colon-separated list and drops empty items.
func SplitList(value string) []string {
	items := []string{}
	for _, item := range strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ':'
	}) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}

	return fallback
}
