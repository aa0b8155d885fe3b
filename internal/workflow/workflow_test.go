package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nfch-tools/nfch/internal/fileio"
	"github.com/nfch-tools/nfch/internal/message"
	"github.com/nfch-tools/nfch/internal/project"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func writeJSON(t *testing.T, path string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return writeFile(t, path, string(data))
}

// newProject initializes a project with one GRCh38 build whose index root is index.
func newProject(t *testing.T, index string) (*project.Store, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	root := t.TempDir()
	store := project.NewStore(root, message.New(&out, true))

	genomes := writeJSON(t, filepath.Join(root, "genomes.json"), project.GenomeRegistry{
		"GRCh38": {
			Fasta: writeFile(t, filepath.Join(root, "ref", "genome.fa"), ">1\nA\n"),
			GTF:   writeFile(t, filepath.Join(root, "ref", "genes.gtf"), "1\tx\n"),
			Index: index,
		},
	})
	if err := store.Init(project.InitOptions{Email: "a@b.com", GenomesJSON: genomes}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return store, &out
}

func readParams(t *testing.T, path string) map[string]any {
	t.Helper()
	params := map[string]any{}
	if err := fileio.ReadJSON(path, &params); err != nil {
		t.Fatalf("read params: %v", err)
	}
	return params
}

func TestRunSettingsKeepInsertionOrder(t *testing.T) {
	rs := NewRunSettings()
	rs.Set("input", "samplesheet.csv")
	rs.Set("outdir", "../output")
	rs.Set("email", "a@b.com")
	rs.Set("save_reference", true)
	rs.Set("input", "../other.csv")

	if got := strings.Join(rs.Keys(), ","); got != "input,outdir,email,save_reference" {
		t.Fatalf("keys=%s", got)
	}
	data, err := json.Marshal(rs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"input":"../other.csv","outdir":"../output","email":"a@b.com","save_reference":true}`
	if string(data) != want {
		t.Fatalf("json=%s want %s", data, want)
	}
}

func TestNextflowCommand(t *testing.T) {
	got := NextflowCommand("nf-core/rnaseq", "3.18.0", "docker")
	for _, want := range []string{
		"nohup nextflow run nf-core/rnaseq \\\n",
		"    -revision 3.18.0 \\\n",
		"    -profile docker \\\n",
		"    -params-file nf_params.json \\\n",
		"> nohup_nextflow.out \\\n2> nohup_nextflow.err\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("command missing %q:\n%s", want, got)
		}
	}
}

func TestScaffoldRNASeqWithoutIndex(t *testing.T) {
	store, out := newProject(t, "")

	layout, err := Scaffold(store, RNASeq, Options{GenomeBuild: "GRCh38"})
	if err != nil {
		t.Fatalf("Scaffold: %v", err)
	}
	for _, dir := range layout.Dirs() {
		if !fileio.IsDir(dir) {
			t.Fatalf("expected directory %s", dir)
		}
	}

	params := readParams(t, layout.ParamsPath())
	if params["save_reference"] != true {
		t.Fatalf("save_reference=%v want true", params["save_reference"])
	}
	if params["fasta"] != filepath.Join(store.Root(), "ref", "genome.fa") || params["gtf"] != filepath.Join(store.Root(), "ref", "genes.gtf") {
		t.Fatalf("unexpected fasta/gtf %v %v", params["fasta"], params["gtf"])
	}
	if params["email"] != "a@b.com" || params["input"] != "samplesheet.csv" || params["outdir"] != "../output" {
		t.Fatalf("unexpected seeded settings %v", params)
	}
	for _, key := range []string{"star_index", "salmon_index", "gene_bed"} {
		if _, ok := params[key]; ok {
			t.Fatalf("did not expect %s without an index", key)
		}
	}
	if !strings.Contains(out.String(), "Do not forget to transfer") {
		t.Fatalf("expected index transfer reminder, got:\n%s", out.String())
	}

	command, err := os.ReadFile(layout.CommandPath())
	if err != nil {
		t.Fatalf("read command: %v", err)
	}
	if !strings.Contains(string(command), "-revision 3.18.0") || !strings.Contains(string(command), "-profile docker") {
		t.Fatalf("unexpected command:\n%s", command)
	}
}

func TestScaffoldRNASeqWithIndex(t *testing.T) {
	index := filepath.Join(t.TempDir(), "GRCh38_index")
	writeFile(t, filepath.Join(index, "genes.bed"), "1\t0\t10\n")
	store, _ := newProject(t, index)

	layout, err := Scaffold(store, RNASeq, Options{GenomeBuild: "GRCh38", Revision: "3.19.0"})
	if err != nil {
		t.Fatalf("Scaffold: %v", err)
	}
	params := readParams(t, layout.ParamsPath())
	if params["save_reference"] != false {
		t.Fatalf("save_reference=%v want false", params["save_reference"])
	}
	want := map[string]string{
		"star_index":   filepath.Join(index, "index", "star"),
		"salmon_index": filepath.Join(index, "index", "salmon"),
		"gene_bed":     filepath.Join(index, "genes.bed"),
	}
	for key, value := range want {
		if params[key] != value {
			t.Fatalf("%s=%v want %s", key, params[key], value)
		}
	}
	command, err := os.ReadFile(layout.CommandPath())
	if err != nil {
		t.Fatalf("read command: %v", err)
	}
	if !strings.Contains(string(command), "-revision 3.19.0") {
		t.Fatalf("expected requested revision, got:\n%s", command)
	}
}

func TestScaffoldIndexWithoutBed(t *testing.T) {
	index := t.TempDir()
	store, _ := newProject(t, index)

	_, err := Scaffold(store, RNASeq, Options{GenomeBuild: "GRCh38"})
	if !errors.Is(err, fileio.ErrPatternMatch) {
		t.Fatalf("expected ErrPatternMatch, got %v", err)
	}
	if fileio.Exists(RNASeq.Layout(store).Root) {
		t.Fatalf("failed lookup must not leave a workflow folder behind")
	}
}

func TestScaffoldUnknownGenomeBuild(t *testing.T) {
	store, _ := newProject(t, "")

	_, err := Scaffold(store, RNASeq, Options{GenomeBuild: "GRCm39"})
	if !errors.Is(err, fileio.ErrKeyLookup) {
		t.Fatalf("expected ErrKeyLookup, got %v", err)
	}
	if fileio.Exists(RNASeq.Layout(store).Root) {
		t.Fatalf("failed lookup must not leave a workflow folder behind")
	}
}

func TestScaffoldTwiceFails(t *testing.T) {
	store, _ := newProject(t, "")
	if _, err := Scaffold(store, RNASeq, Options{GenomeBuild: "GRCh38"}); err != nil {
		t.Fatalf("first Scaffold: %v", err)
	}
	if _, err := Scaffold(store, RNASeq, Options{GenomeBuild: "GRCh38"}); !errors.Is(err, fileio.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestScaffoldRequiresInitializedProject(t *testing.T) {
	store := project.NewStore(t.TempDir(), message.New(io.Discard, true))
	if _, err := Scaffold(store, RNASeq, Options{}); !errors.Is(err, fileio.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScaffoldWithoutEmail(t *testing.T) {
	var out bytes.Buffer
	store := project.NewStore(t.TempDir(), message.New(&out, true))
	if err := store.Init(project.InitOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	layout, err := Scaffold(store, Pipeline{Name: "nf-core/demo", Folder: "demo", Profile: "docker", DefaultRevision: "1.0.0"}, Options{})
	if err != nil {
		t.Fatalf("Scaffold: %v", err)
	}
	params := readParams(t, layout.ParamsPath())
	if _, ok := params["email"]; ok {
		t.Fatalf("did not expect email, got %v", params)
	}
	if !strings.Contains(out.String(), "No e-mail address") {
		t.Fatalf("expected missing e-mail warning, got:\n%s", out.String())
	}
}

func writeSignatures(t *testing.T, store *project.Store) {
	t.Helper()
	writeJSON(t, store.SignaturesPath(), project.SignatureRegistry{
		"human": {
			"h.all":  "/msigdb/h.all.gmt",
			"c2.all": "/msigdb/c2.all.gmt",
			"c3.all": "/msigdb/c3.all.gmt",
			"c5.all": "/msigdb/c5.all.gmt",
			"c8.all": "/msigdb/c8.all.gmt",
		},
	})
}

func TestDifferentialAbundanceRequiresRNASeq(t *testing.T) {
	store, _ := newProject(t, "")
	writeSignatures(t, store)

	_, err := Scaffold(store, DifferentialAbundance, Options{})
	if !errors.Is(err, fileio.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "prepare nf-core/rnaseq first") {
		t.Fatalf("expected build-order hint, got %v", err)
	}
}

func TestDifferentialAbundanceParams(t *testing.T) {
	store, _ := newProject(t, "")
	writeSignatures(t, store)
	if _, err := Scaffold(store, RNASeq, Options{GenomeBuild: "GRCh38"}); err != nil {
		t.Fatalf("Scaffold rnaseq: %v", err)
	}

	layout, err := Scaffold(store, DifferentialAbundance, Options{})
	if err != nil {
		t.Fatalf("Scaffold differentialabundance: %v", err)
	}
	params := readParams(t, layout.ParamsPath())
	if params["gtf"] != filepath.Join(store.Root(), "ref", "genes.gtf") {
		t.Fatalf("gtf=%v", params["gtf"])
	}
	if params["input"] != "../../nfcore_rnaseq/run/samplesheet.csv" || params["contrasts"] != "../metadata/contrasts.csv" {
		t.Fatalf("unexpected input/contrasts %v %v", params["input"], params["contrasts"])
	}
	wantSets := "/msigdb/h.all.gmt,/msigdb/c2.all.gmt,/msigdb/c3.all.gmt,/msigdb/c5.all.gmt,/msigdb/c8.all.gmt"
	if params["gene_sets_files"] != wantSets {
		t.Fatalf("gene_sets_files=%v", params["gene_sets_files"])
	}
	if params["differential_min_fold_change"] != float64(2) || params["differential_max_qval"] != 0.05 || params["gsea_plot_top_x"] != float64(20) {
		t.Fatalf("unexpected thresholds %v", params)
	}
	if params["gprofiler2_organism"] != "hsapiens" || params["gsea_run"] != true {
		t.Fatalf("unexpected enrichment settings %v", params)
	}

	command, err := os.ReadFile(layout.CommandPath())
	if err != nil {
		t.Fatalf("read command: %v", err)
	}
	if !strings.Contains(string(command), "-profile rnaseq,docker") || !strings.Contains(string(command), "-revision 1.5.0") {
		t.Fatalf("unexpected command:\n%s", command)
	}
}

func TestDifferentialAbundanceMissingSignature(t *testing.T) {
	store, _ := newProject(t, "")
	writeJSON(t, store.SignaturesPath(), project.SignatureRegistry{"human": {"h.all": "/msigdb/h.gmt"}})
	if _, err := Scaffold(store, RNASeq, Options{GenomeBuild: "GRCh38"}); err != nil {
		t.Fatalf("Scaffold rnaseq: %v", err)
	}

	_, err := Scaffold(store, DifferentialAbundance, Options{})
	if !errors.Is(err, fileio.ErrKeyLookup) {
		t.Fatalf("expected ErrKeyLookup, got %v", err)
	}
	if _, err := Scaffold(store, DifferentialAbundance, Options{Organism: "zebrafish"}); !errors.Is(err, fileio.ErrKeyLookup) {
		t.Fatalf("expected ErrKeyLookup for organism, got %v", err)
	}
}

func TestDifferentialAbundanceFallsBackToGenomeBuild(t *testing.T) {
	store, out := newProject(t, "")
	writeSignatures(t, store)
	rnaseq := RNASeq.Layout(store)
	for _, dir := range rnaseq.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	writeJSON(t, rnaseq.ParamsPath(), map[string]any{"input": "samplesheet.csv"})

	layout, err := Scaffold(store, DifferentialAbundance, Options{GenomeBuild: "GRCh38"})
	if err != nil {
		t.Fatalf("Scaffold: %v", err)
	}
	params := readParams(t, layout.ParamsPath())
	if params["gtf"] != filepath.Join(store.Root(), "ref", "genes.gtf") {
		t.Fatalf("gtf=%v", params["gtf"])
	}
	if !strings.Contains(out.String(), "falling back to genome build") {
		t.Fatalf("expected fallback warning, got:\n%s", out.String())
	}
}

func TestClean(t *testing.T) {
	root := t.TempDir()
	layout := NewLayout(root)
	writeFile(t, filepath.Join(layout.Work, "ab", "cdef", ".command.sh"), "echo\n")
	writeFile(t, filepath.Join(layout.Work, "12", "3456", "out.bam"), "bam")
	writeFile(t, filepath.Join(layout.Run, StdoutLogName), "log")

	var out, bar bytes.Buffer
	printer := message.New(&out, true)
	if err := Clean(printer, root, &bar); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if fileio.Exists(layout.Work) {
		t.Fatalf("work directory still present")
	}
	if !fileio.Exists(filepath.Join(layout.Run, StdoutLogName)) {
		t.Fatalf("Clean must only remove run/work")
	}
	if !strings.Contains(out.String(), "has been removed successfully") {
		t.Fatalf("expected success message, got:\n%s", out.String())
	}

	if err := Clean(printer, root, nil); !errors.Is(err, fileio.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second clean, got %v", err)
	}
}
