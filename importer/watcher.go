package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"budgsmart/ledger"
)

// Watcher imports CSV files dropped into a directory. Imported files are
// renamed with a .done suffix so a restart does not replay them; files that
// fail outright get .failed.
type Watcher struct {
	ledger    *ledger.Ledger
	log       zerolog.Logger
	accountID string
	dir       string
}

func NewWatcher(l *ledger.Ledger, log zerolog.Logger, accountID, dir string) *Watcher {
	return &Watcher{ledger: l, log: log, accountID: accountID, dir: dir}
}

// Run watches the drop directory until the context is done. Files already
// present at startup are imported first.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return err
	}

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !isImportable(event.Name) {
				continue
			}
			// Writers may still be flushing when the create event fires.
			time.Sleep(200 * time.Millisecond)
			w.importOne(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.log.Error().Err(err).Str("dir", w.dir).Msg("sweep failed")
		return
	}
	for _, e := range entries {
		if e.IsDir() || !isImportable(e.Name()) {
			continue
		}
		w.importOne(ctx, filepath.Join(w.dir, e.Name()))
	}
}

func (w *Watcher) importOne(ctx context.Context, path string) {
	res, err := ImportFile(ctx, w.ledger, w.log, w.accountID, path)
	if err != nil {
		w.log.Error().Err(err).Str("file", path).Msg("import failed")
		_ = os.Rename(path, path+".failed")
		return
	}
	w.log.Info().Str("file", path).Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("import complete")
	_ = os.Rename(path, path+".done")
}

func isImportable(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
