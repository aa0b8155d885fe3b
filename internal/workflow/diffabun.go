package workflow

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nfch-tools/nfch/internal/fileio"
	"github.com/nfch-tools/nfch/internal/project"
)

const (
	DefaultOrganism = "human"
	rnaseqFolder    = "nfcore_rnaseq"
)

// DifferentialAbundance is the nf-core/differentialabundance pipeline. It consumes the
// outputs of a prepared nf-core/rnaseq workflow in the same project.
var DifferentialAbundance = Pipeline{
	Name:            "nf-core/differentialabundance",
	Folder:          "nfcore_differentialabundance",
	Profile:         "rnaseq,docker",
	DefaultRevision: "1.5.0",
	Params:          diffAbunParams,
}

// MSigDB collections passed to GSEA.
var signatureCategories = []string{"H", "C2", "C3", "C5", "C8"}

var gprofilerOrganisms = map[string]string{
	"human": "hsapiens",
	"mouse": "mmusculus",
}

func diffAbunParams(store *project.Store, opts Options, rs *RunSettings) error {
	gtf, err := upstreamGTF(store, opts)
	if err != nil {
		return err
	}

	organism := opts.Organism
	if organism == "" {
		organism = DefaultOrganism
	}
	gprofilerOrganism, ok := gprofilerOrganisms[organism]
	if !ok {
		return fmt.Errorf("organism %q for g:Profiler (supported: human,mouse): %w", organism, fileio.ErrKeyLookup)
	}

	sigPath := opts.SignaturesJSON
	if sigPath == "" {
		sigPath = store.SignaturesPath()
	}
	signatures, err := project.LoadSignatureRegistry(store.Path(sigPath))
	if err != nil {
		return err
	}
	geneSets := make([]string, 0, len(signatureCategories))
	for _, category := range signatureCategories {
		path, err := signatures.Lookup(organism, strings.ToLower(category)+".all")
		if err != nil {
			return err
		}
		geneSets = append(geneSets, path)
	}

	upstream := "../../" + rnaseqFolder
	rs.Set("input", upstream+"/run/samplesheet.csv")
	rs.Set("contrasts", "../metadata/contrasts.csv")
	rs.Set("matrix", upstream+"/output/star_salmon/salmon.merged.gene_counts_length_scaled.tsv")
	rs.Set("gtf", gtf)
	rs.Set("differential_min_fold_change", 2)
	rs.Set("differential_max_qval", 0.05)
	rs.Set("gsea_run", true)
	rs.Set("gsea_metric", "log2_Ratio_of_Classes")
	rs.Set("gene_sets_files", strings.Join(geneSets, ","))
	rs.Set("gsea_plot_top_x", 20)
	rs.Set("gprofiler2_run", true)
	rs.Set("gprofiler2_organism", gprofilerOrganism)
	return nil
}

// upstreamGTF recovers the annotation used by the nf-core/rnaseq run of the project.
// The genome registry is consulted only when that run's parameters carry no gtf.
func upstreamGTF(store *project.Store, opts Options) (string, error) {
	path := NewLayout(store.Path(rnaseqFolder)).ParamsPath()
	params := map[string]any{}
	if err := fileio.ReadJSON(path, &params); err != nil {
		return "", fmt.Errorf("nf-core/rnaseq parameters (prepare nf-core/rnaseq first): %w", err)
	}
	if gtf, ok := params["gtf"].(string); ok && gtf != "" {
		log.WithField("gtf", gtf).Debug("gtf recovered from nf-core/rnaseq parameters")
		return gtf, nil
	}

	if opts.GenomeBuild == "" {
		return "", fmt.Errorf("gtf in %s: %w", path, fileio.ErrKeyLookup)
	}
	store.Printer().Warningf("No gtf in %q, falling back to genome build %q.", path, opts.GenomeBuild)
	genomes, err := store.LoadGenomes()
	if err != nil {
		return "", err
	}
	genome, err := genomes.Lookup(opts.GenomeBuild)
	if err != nil {
		return "", err
	}
	return genome.GTF, nil
}
