package update

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches the database file for writes made outside this process,
// such as the e-reader host syncing reading stats, and emits a debounced
// reload signal.
type Watcher struct {
	fw     *fsnotify.Watcher
	out    chan struct{}
	done   chan struct{}
	target string
	logger *zap.Logger
}

func StartWatcher(databasePath string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: sqlite swaps files on checkpoint and
	// a file watch would go stale.
	if err := fw.Add(filepath.Dir(databasePath)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:     fw,
		out:    make(chan struct{}, 1),
		done:   make(chan struct{}),
		target: filepath.Base(databasePath),
		logger: logger,
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) C() <-chan struct{} {
	return w.out
}

func (w *Watcher) Close() {
	close(w.done)
	w.fw.Close()
}

func (w *Watcher) loop() {
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			base := filepath.Base(event.Name)
			if base != w.target && base != w.target+"-wal" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Debounce: wait 200ms after the last change before signalling.
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case w.out <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}
