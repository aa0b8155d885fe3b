package workflow

import "path/filepath"

const (
	ParamsFileName  = "nf_params.json"
	CommandFileName = "nextflow_command.txt"
	StdoutLogName   = "nohup_nextflow.out"
	StderrLogName   = "nohup_nextflow.err"
)

// Layout is the folder tree of one workflow.
type Layout struct {
	Root     string
	Metadata string // sample sheet, contrasts
	Run      string // command, parameters, Nextflow logs
	Output   string
	Work     string // Nextflow work directory, removed by Clean
}

func NewLayout(root string) Layout {
	run := filepath.Join(root, "run")
	return Layout{
		Root:     root,
		Metadata: filepath.Join(root, "metadata"),
		Run:      run,
		Output:   filepath.Join(root, "output"),
		Work:     filepath.Join(run, "work"),
	}
}

// Dirs returns the directories scaffolding creates, parents first.
func (l Layout) Dirs() []string {
	return []string{l.Root, l.Metadata, l.Run, l.Output}
}

func (l Layout) ParamsPath() string { return filepath.Join(l.Run, ParamsFileName) }

func (l Layout) CommandPath() string { return filepath.Join(l.Run, CommandFileName) }
