package workflow

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/nfch-tools/nfch/internal/fileio"
	"github.com/nfch-tools/nfch/internal/message"
)

// Clean removes the Nextflow work directory of the workflow rooted at root.
// A missing work directory is an error, so cleaning twice fails. When progressOut
// is not nil a progress bar over the top-level entries is drawn on it.
func Clean(printer *message.Printer, root string, progressOut io.Writer) error {
	work := NewLayout(root).Work
	if !fileio.IsDir(work) {
		return fmt.Errorf("folder %s could not be found: %w", work, fileio.ErrNotFound)
	}

	printer.Processingf("Removing %q...", work)
	entries, err := os.ReadDir(work)
	if err != nil {
		return fmt.Errorf("list %s: %w", work, err)
	}
	bar := newProgress(progressOut, len(entries), "removing "+filepath.Base(root)+"/run/work")
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(work, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
		bar.increment()
	}
	bar.finish()
	if err := os.Remove(work); err != nil {
		return fmt.Errorf("remove %s: %w", work, err)
	}
	log.WithFields(log.Fields{"path": work, "entries": len(entries)}).Debug("work directory removed")

	printer.Successf("%q has been removed successfully.", work)
	return nil
}
