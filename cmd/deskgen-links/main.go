package main

import (
	"flag"
	"os"
	"strings"

	"github.com/pojntfx/deskgen/internal/config"
	"github.com/pojntfx/deskgen/internal/utils"
	"github.com/pojntfx/deskgen/pkg/links"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	verbose := flag.Int(config.VerboseFlag, 5, "Verbosity level (0 is disabled, default is info, 7 is trace)")
	destDir := flag.String(config.DestDirFlag, cfg.DestDir, "Staging root to install below (default is /)")
	prefix := flag.String(config.PrefixFlag, cfg.Prefix, "Install prefix, i.e. /usr")
	tool := flag.String(config.ToolFlag, cfg.Tool, "Tool whose panel directory the descriptors are linked into")
	names := flag.String(config.NamesFlag, strings.Join(links.DefaultNames, ","), "Comma-separated descriptor file names to link")

	flag.Parse()

	utils.SetVerbosity(*verbose)

	results, err := links.Link(links.Options{
		DestDir: *destDir,
		Prefix:  *prefix,
		Tool:    *tool,
		Names:   config.SplitList(*names),
	})
	if err != nil {
		log.Error().
			Err(err).
			Msg("Could not link panels")

		os.Exit(1)
	}

	skipped := 0
	for _, result := range results {
		if result.Skipped {
			skipped++
		}
	}

	log.Info().
		Int("linked", len(results)-skipped).
		Int("skipped", skipped).
		Msg("Linked panels")
}
