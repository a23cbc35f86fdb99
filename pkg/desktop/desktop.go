// Package desktop renders localized desktop entry files from a record and
// the translations a catalog provides for it.
package desktop

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pojntfx/deskgen/pkg/catalog"
	"github.com/rs/zerolog/log"
)

const (
	KeyName     = "Name"
	KeyComment  = "Comment"
	KeyKeywords = "Keywords"
)

var (
	ErrEmptyOutputPath = errors.New("could not render descriptor without an output path")

	valueEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)
)

// RecordSpec describes one descriptor file. PrefixBlock and SuffixBlock are
// copied as-is; they are never parsed.
type RecordSpec struct {
	OutputPath  string
	PrefixBlock string
	Name        string
	Comment     string
	// Keywords is omitted from the output when nil.
	Keywords          *string
	TranslateKeywords bool
	SuffixBlock       string
}

type Translator interface {
	Translate(locale, source string) catalog.Translation
}

type field struct {
	key       string
	value     string
	localized bool
}

func (s RecordSpec) fields() []field {
	fields := []field{
		{KeyName, s.Name, true},
		{KeyComment, s.Comment, true},
	}

	if s.Keywords != nil {
		fields = append(fields, field{KeyKeywords, *s.Keywords, s.TranslateKeywords})
	}

	return fields
}

// Encode writes the descriptor for spec to w and returns the number of
// locale-qualified lines it emitted. Locales are sorted first, so the
// order they are passed in does not matter.
func Encode(w io.Writer, spec RecordSpec, locales []string, t Translator) (int, error) {
	sorted := slices.Clone(locales)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	out := bufio.NewWriter(w)
	localized := 0

	out.WriteString(spec.PrefixBlock)

	for _, f := range spec.fields() {
		writeLine(out, f.key, f.value)

		if !f.localized || t == nil {
			continue
		}

		for _, locale := range sorted {
			translation := t.Translate(locale, f.value)

			// A translation equal to its source means nobody translated it
			if !translation.Found || translation.Value == f.value {
				continue
			}

			writeLine(out, f.key+"["+locale+"]", valueEscaper.Replace(translation.Value))
			localized++
		}
	}

	out.WriteString(spec.SuffixBlock)

	return localized, out.Flush()
}

func writeLine(out *bufio.Writer, key, value string) {
	out.WriteString(key)
	out.WriteByte('=')
	out.WriteString(value)
	out.WriteByte('\n')
}

// Render writes the descriptor for spec to spec.OutputPath. The file is
// replaced atomically, so readers never observe a partial descriptor. An
// existing symlink at spec.OutputPath is replaced by a regular file rather
// than written through, and the result always has mode 0644.
func Render(spec RecordSpec, locales []string, t Translator) error {
	if strings.TrimSpace(spec.OutputPath) == "" {
		return ErrEmptyOutputPath
	}

	f, err := os.CreateTemp(filepath.Dir(spec.OutputPath), "."+filepath.Base(spec.OutputPath)+".*")
	if err != nil {
		return fmt.Errorf("could not create descriptor %v: %w", spec.OutputPath, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	localized, err := Encode(f, spec, locales, t)
	if err != nil {
		return fmt.Errorf("could not write descriptor %v: %w", spec.OutputPath, err)
	}

	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("could not write descriptor %v: %w", spec.OutputPath, err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("could not write descriptor %v: %w", spec.OutputPath, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("could not write descriptor %v: %w", spec.OutputPath, err)
	}

	if err := os.Rename(f.Name(), spec.OutputPath); err != nil {
		return fmt.Errorf("could not replace descriptor %v: %w", spec.OutputPath, err)
	}

	committed = true

	log.Debug().
		Str("path", spec.OutputPath).
		Int("localized", localized).
		Msg("Wrote descriptor")

	return nil
}

// RenderFile renders spec with translations of domain from the catalog tree
// at root.
func RenderFile(spec RecordSpec, locales []string, root, domain string) error {
	return Render(spec, locales, catalog.NewDirReader(root).Domain(domain))
}
