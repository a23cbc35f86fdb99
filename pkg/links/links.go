// Package links exposes installed panel descriptors to the control center by
// symlinking them from the shared applications directory into its panel
// directory.
package links

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyPrefix = errors.New("could not link panels without an install prefix")
	ErrEmptyTool   = errors.New("could not link panels without a tool name")

	errInvalidName = errors.New("could not link descriptor with an invalid name")
)

// DefaultNames are the panels the control center loads from the
// applications directory.
var DefaultNames = []string{
	"cinnamon-color-panel.desktop",
	"cinnamon-display-panel.desktop",
	"cinnamon-network-panel.desktop",
	"cinnamon-wacom-panel.desktop",
}

type Options struct {
	// DestDir stages the install below another root, like DESTDIR.
	DestDir string
	Prefix  string
	Tool    string
	Names   []string
}

type Result struct {
	Source  string
	Target  string
	Skipped bool
}

func (o Options) root() string {
	if o.DestDir != "" {
		return o.DestDir
	}

	return string(filepath.Separator)
}

func (o Options) prefix() string {
	return strings.TrimPrefix(o.Prefix, string(filepath.Separator))
}

// SourceDir is the directory the descriptors are installed to.
func (o Options) SourceDir() string {
	return filepath.Join(o.root(), o.prefix(), "share", "applications")
}

// TargetDir is the directory the tool looks for panels in.
func (o Options) TargetDir() string {
	return filepath.Join(o.root(), o.prefix(), "share", o.Tool, "panels")
}

// Link creates one symlink per name unless something already exists at the
// target path. Existing entries, including dangling links and links to other
// files, are reported and left alone.
func Link(opts Options) ([]Result, error) {
	if strings.TrimSpace(opts.Prefix) == "" {
		return nil, ErrEmptyPrefix
	}

	if strings.TrimSpace(opts.Tool) == "" {
		return nil, ErrEmptyTool
	}

	results := []Result{}
	for _, name := range opts.Names {
		if name == "" || name != filepath.Base(name) {
			return results, fmt.Errorf("%w: %q", errInvalidName, name)
		}

		result := Result{
			Source: filepath.Join(opts.SourceDir(), name),
			Target: filepath.Join(opts.TargetDir(), name),
		}

		if _, err := os.Lstat(result.Target); err == nil {
			log.Info().
				Str("path", result.Target).
				Msg("Already exists, skipping symlink creation")

			result.Skipped = true
			results = append(results, result)

			continue
		}

		if err := os.Symlink(result.Source, result.Target); err != nil {
			return results, fmt.Errorf("could not link %v to %v: %w", result.Target, result.Source, err)
		}

		log.Debug().
			Str("source", result.Source).
			Str("target", result.Target).
			Msg("Created symlink")

		results = append(results, result)
	}

	return results, nil
}
