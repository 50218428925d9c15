package app

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/dshills/sabrevga/internal/config"
	"github.com/dshills/sabrevga/internal/renderer/backend"
)

// Mode is the resolved host mode.
type Mode int

const (
	// ModeTerminal renders to the controlling terminal through tcell.
	ModeTerminal Mode = iota
	// ModeHeadless renders frames to an in-memory raster and writes a PNG.
	ModeHeadless
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeTerminal:
		return config.ModeTerminal
	case ModeHeadless:
		return config.ModeHeadless
	default:
		return "unknown"
	}
}

// ResolveMode maps a configured mode to a host mode. "auto" picks the
// terminal when both stdin and stdout are terminals.
func ResolveMode(name string) (Mode, error) {
	return resolveMode(name, stdioIsTerminal)
}

func resolveMode(name string, isTerminal func() bool) (Mode, error) {
	switch name {
	case config.ModeTerminal:
		return ModeTerminal, nil
	case config.ModeHeadless:
		return ModeHeadless, nil
	case config.ModeAuto, "":
		if isTerminal() {
			return ModeTerminal, nil
		}
		return ModeHeadless, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// LoadFont opens the configured face.
func LoadFont(fc config.FontConfig) (backend.Font, error) {
	switch fc.Face {
	case config.FaceBasic, "":
		return backend.DefaultFont(), nil
	case config.FaceGoMono:
		return backend.GoMono(fc.Size)
	default:
		if err := fc.CheckFace(); err != nil {
			return nil, err
		}
		return backend.LoadTrueType(fc.Face, fc.Size)
	}
}
