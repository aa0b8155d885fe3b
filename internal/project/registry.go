package project

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/nfch-tools/nfch/internal/fileio"
)

// GenomeBuild lists the reference files of one genome build. Index is the root of
// prebuilt nf-core/rnaseq indexes and may be empty.
type GenomeBuild struct {
	Fasta string `json:"fasta" yaml:"fasta"`
	GTF   string `json:"gtf" yaml:"gtf"`
	Index string `json:"index" yaml:"index"`
}

// fields returns the path fields in validation order.
func (g GenomeBuild) fields() [][2]string {
	return [][2]string{
		{"fasta", g.Fasta},
		{"gtf", g.GTF},
		{"index", g.Index},
	}
}

// GenomeRegistry maps genome build names to their reference files.
type GenomeRegistry map[string]GenomeBuild

// LoadGenomeRegistry reads a genome registry from path (.json or .json.gz).
func LoadGenomeRegistry(path string) (GenomeRegistry, error) {
	reg := GenomeRegistry{}
	if err := fileio.ReadJSON(path, &reg); err != nil {
		return nil, fmt.Errorf("load genome registry: %w", err)
	}
	return reg, nil
}

// Builds returns the build names in sorted order.
func (r GenomeRegistry) Builds() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the entry of build.
func (r GenomeRegistry) Lookup(build string) (GenomeBuild, error) {
	g, ok := r[build]
	if !ok {
		return GenomeBuild{}, fmt.Errorf("genome build %q (available: %v): %w", build, r.Builds(), fileio.ErrKeyLookup)
	}
	log.WithField("build", build).Debug("genome build resolved")
	return g, nil
}

// SignatureRegistry maps an organism to its gene-signature collections,
// keyed like "h.all" or "c2.all".
type SignatureRegistry map[string]map[string]string

// LoadSignatureRegistry reads a signature registry from path (.json or .json.gz).
func LoadSignatureRegistry(path string) (SignatureRegistry, error) {
	reg := SignatureRegistry{}
	if err := fileio.ReadJSON(path, &reg); err != nil {
		return nil, fmt.Errorf("load signature registry: %w", err)
	}
	return reg, nil
}

// Lookup returns the signature file of category for organism.
func (r SignatureRegistry) Lookup(organism, category string) (string, error) {
	sigs, ok := r[organism]
	if !ok {
		return "", fmt.Errorf("organism %q in signature registry: %w", organism, fileio.ErrKeyLookup)
	}
	path, ok := sigs[category]
	if !ok {
		return "", fmt.Errorf("signature %q for organism %q: %w", category, organism, fileio.ErrKeyLookup)
	}
	return path, nil
}
