package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nfch-tools/nfch/internal/project"
)

const (
	keyEmail          = "email"
	keyGenomesJSON    = "genomes-json"
	keySignaturesJSON = "signatures-json"
	keyFormat         = "format"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Initiate a project and inspect its settings",
	}
	cmd.AddCommand(
		newPrerequisitesCmd(a),
		newInitCmd(a),
		newShowSettingsCmd(a),
	)
	return cmd
}

func newPrerequisitesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prerequisites",
		Short: "Show prerequisites of a typical nf-core project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, note := range project.Prerequisites() {
				a.printer.Infof("%s", note)
			}
			return nil
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initiate the project: user e-mail, available genomes and gene signatures",
		Long: `Create the hidden .nfch folder of the project and store settings there.

Settings given to a later "init" are merged over the existing ones. A genome registry
is validated before it is copied: every non-empty path it lists must exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(a, cmd, keySignaturesJSON); err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString(keyEmail)
			genomes, _ := cmd.Flags().GetString(keyGenomesJSON)
			return a.store().Init(project.InitOptions{
				Email:          email,
				GenomesJSON:    genomes,
				SignaturesJSON: a.v.GetString(keySignaturesJSON),
			})
		},
	}
	cmd.Flags().String(keyEmail, "", "E-mail address to receive information regarding Nextflow runs")
	cmd.Flags().String(keyGenomesJSON, "", "Path to the JSON file listing genome builds (fasta, gtf, index)")
	cmd.Flags().String(keySignaturesJSON, "", "Path to the JSON file listing gene signatures per organism")
	return cmd
}

func newShowSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-settings",
		Short: "Show project settings: user, available genomes, gene signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString(keyFormat)
			return a.store().Show(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().String(keyFormat, project.FormatYAML, "Output format (yaml,json)")
	return cmd
}

// bindFlags binds command-local flags to the configuration so NFCH_* variables can supply them.
func bindFlags(a *app, cmd *cobra.Command, keys ...string) error {
	for _, key := range keys {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return err
		}
	}
	return nil
}
