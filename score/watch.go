package score

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	c "lautenbacher.net/gobeep/config"
	"lautenbacher.net/gobeep/sequencer"
	"lautenbacher.net/gobeep/util"
)

// Watch reloads the score at path whenever it is written or replaced and
// publishes every version that parses to out. Broken versions are logged
// and skipped, as are empty versions, which is what an editor truncating
// the file leaves behind for a moment. The directory is watched rather than the file so editors
// that save by renaming are picked up too.
func Watch(path string, defaults c.NoteDefaults, out *util.Latest[sequencer.Sequence]) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				seq, err := Load(abs, defaults)
				if err != nil {
					slog.Warn("Ignoring changed score", "error", err)
					continue
				}
				if len(seq.Notes) == 0 {
					slog.Debug("Ignoring empty score", "file", abs)
					continue
				}
				slog.Info("Score changed", "file", abs, "notes", len(seq.Notes))
				out.Put(seq)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Score watcher error", "error", err)
			}
		}
	}()

	return func() {
		watcher.Close()
		<-done
	}, nil
}
