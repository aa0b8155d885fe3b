// Package workflow scaffolds and cleans the folders of nf-core pipeline runs.
//
// A pipeline is described by a Pipeline record; Scaffold turns it into a folder tree
// with a Nextflow command file and an nf_params.json built from the project settings.
package workflow

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/nfch-tools/nfch/internal/fileio"
	"github.com/nfch-tools/nfch/internal/project"
)

// ParamsFunc adds pipeline-specific parameters on top of the seeded run settings.
type ParamsFunc func(store *project.Store, opts Options, rs *RunSettings) error

// Pipeline describes one nf-core pipeline nfch knows how to prepare.
type Pipeline struct {
	Name            string // nf-core pipeline, e.g. "nf-core/rnaseq"
	Folder          string // workflow folder relative to the project root
	Profile         string // Nextflow -profile value
	DefaultRevision string
	Params          ParamsFunc
}

// Options are the per-invocation inputs of "prepare".
type Options struct {
	Revision       string
	GenomeBuild    string
	Organism       string
	SignaturesJSON string
}

func (o Options) revision(p Pipeline) string {
	if o.Revision == "" {
		return p.DefaultRevision
	}
	return o.Revision
}

// Layout returns the folder tree of p inside the project of store.
func (p Pipeline) Layout(store *project.Store) Layout {
	return NewLayout(store.Path(p.Folder))
}

// Seed returns the run settings every pipeline starts from.
func Seed(store *project.Store, settings project.Settings) *RunSettings {
	rs := NewRunSettings()
	rs.Set("input", "samplesheet.csv")
	rs.Set("outdir", "../output")
	if email := settings.Email(); email != "" {
		rs.Set("email", email)
	} else {
		store.Printer().Warningf(`No e-mail address in the project settings, "email" is left out of %s.`, ParamsFileName)
	}
	return rs
}

// Scaffold creates the folder tree of p, its Nextflow command and its parameters file.
// Registry lookups run before anything is created, so a bad genome build or a missing
// upstream run leaves the project untouched. An existing workflow folder is an error.
func Scaffold(store *project.Store, p Pipeline, opts Options) (Layout, error) {
	layout := p.Layout(store)
	printer := store.Printer()

	settings, err := store.LoadSettings()
	if err != nil {
		return layout, err
	}
	rs := Seed(store, settings)
	if p.Params != nil {
		if err := p.Params(store, opts, rs); err != nil {
			return layout, fmt.Errorf("%s parameters: %w", p.Name, err)
		}
	}
	log.WithFields(log.Fields{"pipeline": p.Name, "params": rs.Len()}).Debug("run settings resolved")

	for _, dir := range layout.Dirs() {
		if err := fileio.CreateDirectory(dir); err != nil {
			return layout, fmt.Errorf("%w (remove or rename %q and try again)", err, layout.Root)
		}
		printer.Successf("Directory %q created successfully.", dir)
	}

	if err := EmitRunCommand(store, layout, p.Name, opts.revision(p), p.Profile); err != nil {
		return layout, err
	}

	printer.Processingf("Creating the Nextflow parameters within %q...", layout.ParamsPath())
	if err := fileio.WriteJSON(rs, layout.ParamsPath()); err != nil {
		return layout, err
	}
	printer.Successf("File %q has been created successfully.", layout.ParamsPath())
	return layout, nil
}

// NextflowCommand renders the shell command that launches the pipeline from the run folder.
func NextflowCommand(name, revision, profile string) string {
	return fmt.Sprintf(`nohup nextflow run %s \
    -revision %s \
    -profile %s \
    -resume \
    -params-file %s \
> %s \
2> %s
`, name, revision, profile, ParamsFileName, StdoutLogName, StderrLogName)
}

// EmitRunCommand writes the Nextflow command file into the run folder.
func EmitRunCommand(store *project.Store, layout Layout, name, revision, profile string) error {
	path := layout.CommandPath()
	store.Printer().Processingf("Creating the Nextflow command within %q...", path)
	if err := fileio.WriteText(NextflowCommand(name, revision, profile), path); err != nil {
		return err
	}
	store.Printer().Successf("File %q has been created successfully.", path)
	return nil
}
