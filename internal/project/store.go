// Package project manages the hidden .nfch settings folder of a project: user settings,
// the genome registry and the gene-signature registry.
package project

import (
	"fmt"
	"maps"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/nfch-tools/nfch/internal/fileio"
	"github.com/nfch-tools/nfch/internal/message"
)

const (
	SettingsDirName    = ".nfch"
	SettingsFileName   = "settings.json"
	GenomesFileName    = "genomes.json"
	SignaturesFileName = "signatures.json"
)

// Store is the settings folder of one project. Every command receives it explicitly
// rather than reading a process-wide location.
type Store struct {
	root    string
	printer *message.Printer
}

// NewStore returns the store of the project rooted at root.
func NewStore(root string, p *message.Printer) *Store {
	if root == "" {
		root = "."
	}
	if p == nil {
		p = message.Default()
	}
	return &Store{root: root, printer: p}
}

func (s *Store) Root() string { return s.root }

func (s *Store) Printer() *message.Printer { return s.printer }

func (s *Store) Dir() string { return filepath.Join(s.root, SettingsDirName) }

func (s *Store) SettingsPath() string { return filepath.Join(s.Dir(), SettingsFileName) }

func (s *Store) GenomesPath() string { return filepath.Join(s.Dir(), GenomesFileName) }

func (s *Store) SignaturesPath() string { return filepath.Join(s.Dir(), SignaturesFileName) }

// Path resolves p against the project root unless it is already absolute.
func (s *Store) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.root, p)
}

// Settings holds per-project preferences. Only "email" is used today.
type Settings map[string]string

const emailKey = "email"

func (s Settings) Email() string { return s[emailKey] }

// Merge returns the union of s and newer; newer wins on conflicting keys.
func (s Settings) Merge(newer Settings) Settings {
	out := make(Settings, len(s)+len(newer))
	maps.Copy(out, s)
	maps.Copy(out, newer)
	return out
}

// LoadSettings reads the project settings. A missing file means the project was never initialized.
func (s *Store) LoadSettings() (Settings, error) {
	settings := Settings{}
	if err := fileio.ReadJSON(s.SettingsPath(), &settings); err != nil {
		return nil, fmt.Errorf("load project settings (run \"nfch project init\" first): %w", err)
	}
	log.WithField("keys", len(settings)).Debug("project settings loaded")
	return settings, nil
}

// LoadGenomes reads the genome registry copied into the project.
func (s *Store) LoadGenomes() (GenomeRegistry, error) {
	return LoadGenomeRegistry(s.GenomesPath())
}
