package workflow

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/nfch-tools/nfch/internal/fileio"
	"github.com/nfch-tools/nfch/internal/project"
)

const DefaultGenomeBuild = "GRCh38_Ensembl_release_113"

// RNASeq is the nf-core/rnaseq quantification pipeline.
var RNASeq = Pipeline{
	Name:            "nf-core/rnaseq",
	Folder:          rnaseqFolder,
	Profile:         "docker",
	DefaultRevision: "3.18.0",
	Params:          rnaseqParams,
}

func rnaseqParams(store *project.Store, opts Options, rs *RunSettings) error {
	genomes, err := store.LoadGenomes()
	if err != nil {
		return err
	}
	build := opts.GenomeBuild
	if build == "" {
		build = DefaultGenomeBuild
	}
	genome, err := genomes.Lookup(build)
	if err != nil {
		return err
	}

	rs.Set("extra_salmon_quant_args", "--gcBias")
	rs.Set("fasta", genome.Fasta)
	rs.Set("gtf", genome.GTF)

	if genome.Index == "" {
		rs.Set("save_reference", true)
		store.Printer().Warningf(`
			No prebuilt indexes for %q, nf-core/rnaseq will build and save them.
			Do not forget to transfer the generated genome indexes to the appropriate location once the run
			is finished, with something like "rsync -ahr --progress genome <references folder>/".
			`, build)
		return nil
	}

	bed, err := geneBed(store, genome.Index)
	if err != nil {
		return err
	}
	rs.Set("save_reference", false)
	rs.Set("star_index", filepath.Join(genome.Index, "index", "star"))
	rs.Set("salmon_index", filepath.Join(genome.Index, "index", "salmon"))
	rs.Set("gene_bed", bed)
	return nil
}

// geneBed finds the gene annotation BED file at the top of an index folder.
func geneBed(store *project.Store, index string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(store.Path(index), "*.bed"))
	if err != nil {
		return "", fmt.Errorf("search gene BED: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("gene BED file (*.bed) in %s: %w", index, fileio.ErrPatternMatch)
	}
	if len(matches) > 1 {
		store.Printer().Warningf("Several BED files found in %q, using %q.", index, filepath.Base(matches[0]))
	}
	log.WithField("bed", matches[0]).Debug("gene BED resolved")
	return filepath.Join(index, filepath.Base(matches[0])), nil
}
