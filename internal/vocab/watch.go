package vocab

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"mandibot/internal/logging"
)

// Watch reloads the vocabulary when either CSV source changes on disk.
// It blocks until ctx is cancelled; run it in its own goroutine. A missing
// source file is skipped rather than treated as an error, matching the
// load-empty failure policy.
func (v *Vocabulary) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := 0
	for _, path := range []string{v.commodityFile, v.districtFile} {
		if path == "" {
			continue
		}
		if err := watcher.Add(path); err != nil {
			logging.VocabWarn("cannot watch %s: %v", path, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		<-ctx.Done()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				logging.Vocab("vocabulary source changed (%s), reloading", ev.Name)
				v.Reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.VocabWarn("watcher error: %v", err)
		}
	}
}
