// Package catalog reads compiled gettext catalogs from a locale tree laid out
// like /usr/share/locale. Every lookup failure degrades to "not found"; only
// listing the tree itself can fail.
package catalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

const (
	moMagic      = 0x950412de
	moHeaderSize = 28
)

var (
	errMalformedCatalog = errors.New("could not decode malformed catalog")
)

// Translation is the result of looking up one source string. Found is false
// when the catalog, the domain or the message is missing.
type Translation struct {
	Value string
	Found bool
}

type translator interface {
	Get(str string, vars ...interface{}) string
	IsTranslated(str string) bool
}

type catalogKey struct {
	domain string
	locale string
}

type candidate struct {
	path     string
	compiled bool
}

type Option func(r *Reader)

// WithCache keeps each parsed catalog for the lifetime of the reader.
func WithCache() Option {
	return func(r *Reader) {
		r.catalogs = map[catalogKey]translator{}
	}
}

// WithLanguages restricts ListLocales to directories whose base language
// matches one of the given tags, e.g. "pt" keeps both "pt" and "pt_BR".
func WithLanguages(tags ...string) Option {
	return func(r *Reader) {
		for _, raw := range tags {
			if strings.TrimSpace(raw) == "" {
				continue
			}

			r.filter = true

			tag, err := parseLocale(raw)
			if err != nil {
				log.Warn().
					Str("language", raw).
					Err(err).
					Msg("Ignoring unparsable language filter")

				continue
			}

			base, _ := tag.Base()
			r.languages = append(r.languages, base)
		}
	}
}

type Reader struct {
	fsys fs.FS

	filter    bool
	languages []language.Base

	catalogsLock sync.Mutex
	catalogs     map[catalogKey]translator
}

// NewReader reads locales from the root of fsys. A nil fsys behaves like an
// empty tree.
func NewReader(fsys fs.FS, options ...Option) *Reader {
	r := &Reader{
		fsys: fsys,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// NewDirReader reads locales from the directory root on disk.
func NewDirReader(root string, options ...Option) *Reader {
	if strings.TrimSpace(root) == "" {
		return NewReader(nil, options...)
	}

	return NewReader(os.DirFS(root), options...)
}

// ListLocales returns the sorted base names of the immediate subdirectories
// of the tree. A missing tree yields no locales and no error.
func (r *Reader) ListLocales() ([]string, error) {
	if r.fsys == nil {
		return []string{}, nil
	}

	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Msg("Catalog root does not exist, continuing without locales")

			return []string{}, nil
		}

		return nil, fmt.Errorf("could not list catalog root: %w", err)
	}

	locales := []string{}
	for _, entry := range entries {
		if !r.isDir(entry) {
			continue
		}

		if !r.matches(entry.Name()) {
			log.Trace().
				Str("locale", entry.Name()).
				Msg("Skipping locale outside of language filter")

			continue
		}

		locales = append(locales, entry.Name())
	}

	slices.Sort(locales)

	return locales, nil
}

// Translate looks up source in the catalog of domain for locale. It never
// fails: every problem is reported as a Translation that was not found.
func (r *Reader) Translate(domain, locale, source string) Translation {
	if domain == "" || locale == "" || source == "" {
		return Translation{}
	}

	c := r.load(domain, locale)
	if c == nil {
		return Translation{}
	}

	if !c.IsTranslated(source) {
		log.Trace().
			Str("domain", domain).
			Str("locale", locale).
			Str("source", source).
			Msg("No translation in catalog")

		return Translation{}
	}

	return Translation{
		Value: c.Get(source),
		Found: true,
	}
}

// Domain binds the reader to one text domain.
func (r *Reader) Domain(name string) Domain {
	return Domain{
		reader: r,
		name:   name,
	}
}

type Domain struct {
	reader *Reader
	name   string
}

func (d Domain) Name() string {
	return d.name
}

func (d Domain) Translate(locale, source string) Translation {
	return d.reader.Translate(d.name, locale, source)
}

// ListLocales lists the locales below the directory root.
func ListLocales(root string) ([]string, error) {
	return NewDirReader(root).ListLocales()
}

// Translate looks up source for one locale below the directory root.
func Translate(root, domain, locale, source string) Translation {
	return NewDirReader(root).Translate(domain, locale, source)
}

func (r *Reader) isDir(entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}

	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := fs.Stat(r.fsys, entry.Name())
	if err != nil {
		return false
	}

	return info.IsDir()
}

func (r *Reader) matches(locale string) bool {
	if !r.filter {
		return true
	}

	tag, err := parseLocale(locale)
	if err != nil {
		return false
	}

	base, _ := tag.Base()

	return slices.Contains(r.languages, base)
}

func (r *Reader) load(domain, locale string) translator {
	if r.catalogs == nil {
		return r.parse(domain, locale)
	}

	key := catalogKey{domain, locale}

	r.catalogsLock.Lock()
	defer r.catalogsLock.Unlock()

	if c, ok := r.catalogs[key]; ok {
		return c
	}

	c := r.parse(domain, locale)
	r.catalogs[key] = c

	return c
}

func (r *Reader) parse(domain, locale string) translator {
	if r.fsys == nil {
		return nil
	}

	for _, candidate := range candidates(domain, locale) {
		buf, err := fs.ReadFile(r.fsys, candidate.path)
		if err != nil {
			continue
		}

		c, err := decode(buf, candidate.compiled)
		if err != nil {
			log.Trace().
				Str("path", candidate.path).
				Err(err).
				Msg("Could not parse catalog")

			return nil
		}

		log.Trace().
			Str("path", candidate.path).
			Msg("Loaded catalog")

		return c
	}

	log.Trace().
		Str("domain", domain).
		Str("locale", locale).
		Msg("No catalog for locale")

	return nil
}

func candidates(domain, locale string) []candidate {
	return []candidate{
		{path.Join(locale, "LC_MESSAGES", domain+".mo"), true},
		{path.Join(locale, domain+".mo"), true},
		{path.Join(locale, "LC_MESSAGES", domain+".po"), false},
		{path.Join(locale, domain+".po"), false},
	}
}

func decode(buf []byte, compiled bool) (c translator, err error) {
	defer func() {
		if e := recover(); e != nil {
			c = nil
			err = fmt.Errorf("%w: %v", errMalformedCatalog, e)
		}
	}()

	if compiled {
		if err := checkMo(buf); err != nil {
			return nil, err
		}

		mo := gotext.NewMo()
		mo.Parse(buf)

		return mo, nil
	}

	po := gotext.NewPo()
	po.Parse(buf)

	return po, nil
}

// checkMo rejects compiled catalogs whose header or string tables point
// outside of buf. The parser trusts these values for its allocations.
func checkMo(buf []byte) error {
	if len(buf) < moHeaderSize {
		return fmt.Errorf("%w: truncated header", errMalformedCatalog)
	}

	var order binary.ByteOrder
	switch {
	case binary.LittleEndian.Uint32(buf) == moMagic:
		order = binary.LittleEndian
	case binary.BigEndian.Uint32(buf) == moMagic:
		order = binary.BigEndian
	default:
		return fmt.Errorf("%w: invalid magic number", errMalformedCatalog)
	}

	size := uint64(len(buf))
	count := uint64(order.Uint32(buf[8:]))

	for _, table := range []uint64{
		uint64(order.Uint32(buf[12:])),
		uint64(order.Uint32(buf[16:])),
	} {
		if table+8*count > size {
			return fmt.Errorf("%w: string table out of range", errMalformedCatalog)
		}

		for i := uint64(0); i < count; i++ {
			entry := buf[table+8*i:]

			length := uint64(order.Uint32(entry))
			offset := uint64(order.Uint32(entry[4:]))
			if offset+length > size {
				return fmt.Errorf("%w: string %v out of range", errMalformedCatalog, i)
			}
		}
	}

	return nil
}

// parseLocale turns a gettext locale name such as pt_BR.UTF-8@euro into a
// language tag.
func parseLocale(locale string) (language.Tag, error) {
	name := strings.TrimSpace(locale)

	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}

	return language.Parse(strings.ReplaceAll(name, "_", "-"))
}
