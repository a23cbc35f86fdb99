package generator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pojntfx/deskgen/pkg/desktop"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	errNoTranslator = errors.New("could not generate descriptors without a translator")
)

// Generator renders every record of a table against the same locales.
type Generator struct {
	Translator desktop.Translator
	Locales    []string
	// Jobs is the number of records rendered concurrently; values below one
	// render sequentially.
	Jobs int
}

// Run renders all specs. A failing record does not stop the others; every
// failure is returned.
func (g *Generator) Run(ctx context.Context, specs []desktop.RecordSpec) error {
	if g.Translator == nil {
		return errNoTranslator
	}

	var group errgroup.Group
	group.SetLimit(max(g.Jobs, 1))

	errs := make([]error, len(specs))
	for i, spec := range specs {
		if err := ctx.Err(); err != nil {
			errs[i] = fmt.Errorf("could not generate %v: %w", spec.OutputPath, err)

			continue
		}

		group.Go(func() error {
			if err := desktop.Render(spec, g.Locales, g.Translator); err != nil {
				log.Error().
					Str("path", spec.OutputPath).
					Err(err).
					Msg("Could not generate descriptor")

				errs[i] = err

				return nil
			}

			log.Info().
				Str("path", spec.OutputPath).
				Msg("Generated descriptor")

			return nil
		})
	}

	_ = group.Wait()

	return errors.Join(errs...)
}

// Print writes all descriptors to w instead of their output paths, each one
// introduced by a comment naming its output path.
func (g *Generator) Print(w io.Writer, specs []desktop.RecordSpec) error {
	if g.Translator == nil {
		return errNoTranslator
	}

	for i, spec := range specs {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "# %v\n", spec.OutputPath); err != nil {
			return err
		}

		if _, err := desktop.Encode(w, spec, g.Locales, g.Translator); err != nil {
			return err
		}
	}

	return nil
}
