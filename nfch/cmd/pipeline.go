package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/nfch-tools/nfch/internal/workflow"
)

const (
	keyRevision    = "revision"
	keyGenomeBuild = "genome-build"
	keyOrganism    = "organism"
	keyProgress    = "progress"
)

func newRNASeqCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rnaseq",
		Short: "Manage nf-core/rnaseq runs",
	}
	prepare := newPrepareCmd(a, workflow.RNASeq, nil)
	prepare.Flags().String(keyGenomeBuild, workflow.DefaultGenomeBuild, `Genome build of interest, must match a key of the project's genomes.json`)
	cmd.AddCommand(prepare, newCleanCmd(a, workflow.RNASeq))
	return cmd
}

func newDiffAbunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "differentialabundance",
		Aliases: []string{"diffabun"},
		Short:   "Manage nf-core/differentialabundance runs",
	}
	prepare := newPrepareCmd(a, workflow.DifferentialAbundance, func(cmd *cobra.Command, opts *workflow.Options) error {
		if err := bindFlags(a, cmd, keySignaturesJSON); err != nil {
			return err
		}
		opts.Organism, _ = cmd.Flags().GetString(keyOrganism)
		opts.SignaturesJSON = a.v.GetString(keySignaturesJSON)
		return nil
	})
	prepare.Flags().String(keyGenomeBuild, workflow.DefaultGenomeBuild, "Genome build used when the nf-core/rnaseq parameters carry no gtf")
	prepare.Flags().String(keyOrganism, workflow.DefaultOrganism, "Organism of the gene signatures and g:Profiler analysis (human,mouse)")
	prepare.Flags().String(keySignaturesJSON, "", "Gene-signature registry (default: the project's .nfch/signatures.json)")
	cmd.AddCommand(prepare, newCleanCmd(a, workflow.DifferentialAbundance))
	return cmd
}

// newPrepareCmd builds the "prepare" subcommand of p. extra reads pipeline-specific flags.
func newPrepareCmd(a *app, p workflow.Pipeline, extra func(*cobra.Command, *workflow.Options) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Create folders and files associated with a typical " + p.Name + " run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts workflow.Options
			opts.Revision, _ = cmd.Flags().GetString(keyRevision)
			opts.GenomeBuild, _ = cmd.Flags().GetString(keyGenomeBuild)
			if extra != nil {
				if err := extra(cmd, &opts); err != nil {
					return err
				}
			}
			_, err := workflow.Scaffold(a.store(), p, opts)
			return err
		},
	}
	cmd.Flags().String(keyRevision, p.DefaultRevision, "Pipeline version")
	return cmd
}

func newCleanCmd(a *app, p workflow.Pipeline) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean after a " + p.Name + " run is finished",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var progressOut io.Writer
			if on, _ := cmd.Flags().GetBool(keyProgress); on {
				progressOut = a.stderr
			}
			return workflow.Clean(a.printer, p.Layout(a.store()).Root, progressOut)
		},
	}
	cmd.Flags().Bool(keyProgress, true, "Show progress bar")
	return cmd
}
