package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pojntfx/deskgen/internal/config"
	"github.com/pojntfx/deskgen/internal/generator"
	"github.com/pojntfx/deskgen/internal/manifest"
	"github.com/pojntfx/deskgen/internal/utils"
	"github.com/pojntfx/deskgen/pkg/catalog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	verbose := flag.Int(config.VerboseFlag, 5, "Verbosity level (0 is disabled, default is info, 7 is trace)")
	catalogRoot := flag.String(config.CatalogFlag, cfg.CatalogRoot, "Locale tree to read compiled catalogs from (<catalog>/<locale>/LC_MESSAGES/<domain>.mo)")
	domain := flag.String(config.DomainFlag, "", "Text domain to translate with (defaults to the manifest's domain, then to "+cfg.Domain+")")
	languages := flag.String(config.LanguagesFlag, "", "Comma-separated languages to restrict locales to, i.e. fr,pt (default is every locale in the catalog)")
	manifestPath := flag.String(config.ManifestFlag, "", "TOML or YAML record table to generate (default is the embedded control center panels)")
	base := flag.String(config.BaseFlag, ".", "Directory relative output paths are resolved against")
	jobs := flag.Int(config.JobsFlag, 1, "Number of descriptors to generate concurrently")
	stdout := flag.Bool(config.StdoutFlag, false, "Print descriptors to stdout instead of writing them")
	list := flag.Bool(config.ListFlag, false, "Print the locales found in the catalog and exit")

	flag.Parse()

	utils.SetVerbosity(*verbose)

	filter := cfg.Languages
	if *languages != "" {
		filter = config.SplitList(*languages)
	}

	reader := catalog.NewDirReader(*catalogRoot, catalog.WithCache(), catalog.WithLanguages(filter...))

	locales, err := reader.ListLocales()
	if err != nil {
		panic(err)
	}

	if *list {
		for _, locale := range locales {
			fmt.Println(locale)
		}

		return
	}

	var m *manifest.Manifest
	if *manifestPath == "" {
		m, err = manifest.Default()
	} else {
		m, err = manifest.Load(*manifestPath)
	}
	if err != nil {
		panic(err)
	}

	textDomain := cfg.Domain
	if *domain != "" {
		textDomain = *domain
	} else if m.Domain != "" {
		textDomain = m.Domain
	}

	log.Info().
		Str("catalog", *catalogRoot).
		Str("domain", textDomain).
		Strs("locales", locales).
		Int("records", len(m.Records)).
		Msg("Generating descriptors")

	g := &generator.Generator{
		Translator: reader.Domain(textDomain),
		Locales:    locales,
		Jobs:       *jobs,
	}

	specs := m.Specs(*base)

	if *stdout {
		if err := g.Print(os.Stdout, specs); err != nil {
			panic(err)
		}

		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := g.Run(ctx, specs); err != nil {
		cancel()

		log.Error().
			Err(err).
			Msg("Could not generate all descriptors")

		os.Exit(1)
	}

	cancel()
}
