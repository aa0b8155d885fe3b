package cmd

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nfch-tools/nfch/internal/message"
	"github.com/nfch-tools/nfch/internal/project"
)

const (
	keyProjectDir = "project-dir"
	keyNoColor    = "no-color"
	keyDebug      = "debug"
)

var (
	// version is injected via -ldflags at build time.
	version  = "dev"
	exitFunc = os.Exit
)

// app carries what every subcommand needs: configuration, output streams and the printer.
type app struct {
	v       *viper.Viper
	stdout  io.Writer
	stderr  io.Writer
	printer *message.Printer
}

func (a *app) store() *project.Store {
	return project.NewStore(a.v.GetString(keyProjectDir), a.printer)
}

// Execute runs nfch with args and exits the process with its status code.
func Execute(args []string) {
	exitFunc(run(args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{
		v:       viper.New(),
		stdout:  stdout,
		stderr:  stderr,
		printer: message.New(stdout, false),
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		a.printer.Failf("%v, aborting!", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "nfch",
		Short: "Prepare and clean nf-core pipeline runs",
		Long: `nfch scaffolds the folders, Nextflow command and parameter files of nf-core pipeline runs.

Typical use from the top level directory of a project:

  nfch project init --email me@example.org --genomes-json genomes.json
  nfch rnaseq prepare --genome-build GRCh38_Ensembl_release_113
  nfch differentialabundance prepare
  nfch rnaseq clean`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.String(keyProjectDir, ".", "Top level directory of the project")
	flags.Bool(keyNoColor, false, "Disable colored output")
	flags.Bool(keyDebug, false, "Enable debug-level logging")
	for _, key := range []string{keyProjectDir, keyNoColor, keyDebug} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}
	a.v.SetEnvPrefix("NFCH")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newProjectCmd(a),
		newRNASeqCmd(a),
		newDiffAbunCmd(a),
	)
	return root
}

// setup applies the global flags before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.printer = message.New(a.stdout, a.v.GetBool(keyNoColor))
	message.SetDefault(a.printer)

	log.SetOutput(a.stderr)
	if a.v.GetBool(keyDebug) {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	log.WithField("project", a.v.GetString(keyProjectDir)).Debug("configuration loaded")
	return nil
}
