package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/nfch-tools/nfch/internal/fileio"
)

// InitOptions are the inputs of "nfch project init". Empty fields are skipped.
type InitOptions struct {
	Email          string
	GenomesJSON    string
	SignaturesJSON string
}

// Init prepares the settings folder of the project and records the given settings.
func (s *Store) Init(opts InitOptions) error {
	s.CheckVersionControl()
	if err := s.CreateSettingsFolder(); err != nil {
		return err
	}
	if err := s.CreateSettingsFile(opts.Email); err != nil {
		return err
	}
	if opts.GenomesJSON != "" {
		if err := s.CopyGenomeRegistry(opts.GenomesJSON); err != nil {
			return err
		}
	}
	if opts.SignaturesJSON != "" {
		if err := s.CopySignatureRegistry(opts.SignaturesJSON); err != nil {
			return err
		}
	}
	return nil
}

// CheckVersionControl reports whether the project root is a git checkout.
// It only advises; a false result never stops the caller.
func (s *Store) CheckVersionControl() bool {
	if fileio.IsDir(filepath.Join(s.root, ".git")) {
		s.printer.Successf("The project folder seems to be under git version control.")
		return true
	}
	s.printer.Warningf("The project folder does not seem to be under version control, this is advised but not forced.")
	return false
}

// CreateSettingsFolder creates the hidden settings folder. An existing folder is reused.
func (s *Store) CreateSettingsFolder() error {
	dir := s.Dir()
	err := os.Mkdir(dir, 0o755)
	switch {
	case err == nil:
		s.printer.Successf("Directory %q created successfully.", dir)
		return nil
	case errors.Is(err, fs.ErrExist):
		if !fileio.IsDir(dir) {
			return fmt.Errorf("settings folder %s exists but is not a directory: %w", dir, fileio.ErrAlreadyExists)
		}
		s.printer.Warningf("Folder %q already exists.", dir)
		return nil
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("create settings folder: %s %w", s.root, fileio.ErrPermission)
	default:
		return fmt.Errorf("create settings folder: %w", err)
	}
}

// CreateSettingsFile writes the project settings, merging them over an existing file.
func (s *Store) CreateSettingsFile(email string) error {
	newSettings := Settings{}
	if email != "" {
		newSettings[emailKey] = email
	}

	path := s.SettingsPath()
	if !fileio.Exists(path) {
		s.printer.Processingf("Creating %q...", path)
		return fileio.WriteJSON(newSettings, path)
	}

	s.printer.Warningf(`
		File %q already exists, information provided with "nfch project init" will be added if not
		already present within that file or will be overridden otherwise!
		Tip: "nfch project show-settings" will show existing information about the current project.
		`, path)
	old, err := s.LoadSettings()
	if err != nil {
		return err
	}
	merged := old.Merge(newSettings)
	log.WithFields(log.Fields{"old": len(old), "new": len(newSettings), "merged": len(merged)}).Debug("settings merged")
	return fileio.WriteJSON(merged, path)
}

// ValidateGenomePaths checks every path of every build in the registry at registryPath.
// Empty paths only warn, since prebuilt indexes may legitimately be absent. The first
// path that does not exist stops validation and is returned as an ErrNotFound error.
func (s *Store) ValidateGenomePaths(registryPath string) error {
	reg, err := LoadGenomeRegistry(registryPath)
	if err != nil {
		return err
	}
	for _, build := range reg.Builds() {
		for _, field := range reg[build].fields() {
			name, value := field[0], field[1]
			if value == "" {
				s.printer.Warningf("%s: %q is empty, it will be treated as missing.", build, name)
				continue
			}
			if !fileio.Exists(s.Path(value)) {
				return fmt.Errorf("%s: %s %q: %w", build, name, value, fileio.ErrNotFound)
			}
			log.WithFields(log.Fields{"build": build, "field": name}).Debug("genome path ok")
		}
	}
	return nil
}

// CopyGenomeRegistry validates the registry at src and copies it into the settings folder.
func (s *Store) CopyGenomeRegistry(src string) error {
	if !fileio.Exists(src) {
		return fmt.Errorf("genome registry %q: %w", src, fileio.ErrNotFound)
	}
	if err := s.ValidateGenomePaths(src); err != nil {
		return fmt.Errorf("genome registry %q failed validation, fix the paths and try again: %w", src, err)
	}
	return s.copyIntoSettings(src, s.GenomesPath())
}

// CopySignatureRegistry copies a gene-signature registry into the settings folder.
func (s *Store) CopySignatureRegistry(src string) error {
	if !fileio.Exists(src) {
		return fmt.Errorf("signature registry %q: %w", src, fileio.ErrNotFound)
	}
	if _, err := LoadSignatureRegistry(src); err != nil {
		return err
	}
	return s.copyIntoSettings(src, s.SignaturesPath())
}

func (s *Store) copyIntoSettings(src, dest string) error {
	if fileio.Exists(dest) {
		s.printer.Warningf("%q exists already and will be overwritten!", dest)
	}
	s.printer.Processingf("%q is being copied into %q...", src, filepath.Dir(dest))
	if err := fileio.CopyFile(src, dest); err != nil {
		return err
	}
	s.printer.Successf("File %q has been created successfully.", dest)
	return nil
}

// Prerequisites lists what a project needs before its first pipeline run.
func Prerequisites() []string {
	return []string{
		`
		1- Run this tool from within the top level directory of your project.
		`,
		`
		2- It is advised that the aforementioned top level directory is under version control for
		reproducibility purposes.
		`,
		`
		3- Initiation of the project is accomplished via the command "nfch project init" and it accepts an
		optional parameter "--genomes-json", listing available genomes. If not supplied, you will need to
		enter this information manually in the "nf_params.json" file once created by this tool.
		`,
		`
		Extra things to check:
		1- raw data secured after checksum verification
		2- metadata shared with the team
		`,
	}
}
