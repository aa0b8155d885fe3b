package project

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nfch-tools/nfch/internal/fileio"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type overview struct {
	Settings   Settings          `json:"settings" yaml:"settings"`
	Genomes    GenomeRegistry    `json:"genomes,omitempty" yaml:"genomes,omitempty"`
	Signatures SignatureRegistry `json:"signatures,omitempty" yaml:"signatures,omitempty"`
}

// Show writes the project settings and registries to w as YAML or JSON.
// Registries that were never copied into the project are left out.
func (s *Store) Show(w io.Writer, format string) error {
	settings, err := s.LoadSettings()
	if err != nil {
		return err
	}
	ov := overview{Settings: settings}

	if fileio.Exists(s.GenomesPath()) {
		if ov.Genomes, err = s.LoadGenomes(); err != nil {
			return err
		}
	}
	if fileio.Exists(s.SignaturesPath()) {
		if ov.Signatures, err = LoadSignatureRegistry(s.SignaturesPath()); err != nil {
			return err
		}
	}

	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ov); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ov); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (supported: %s,%s)", format, FormatYAML, FormatJSON)
	}
}
