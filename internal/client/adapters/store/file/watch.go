package file

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"notasapp/internal/client/ports/store"
	"notasapp/pkg/logger"
)

const (
	ErrCreateWatcher = "failed to create file watcher"
	ErrWatchDir      = "failed to watch store directory"

	logWatchError = "file watcher error"
	logWatchStart = "watching store directory"
)

var _ store.Watcher = (*Store)(nil)

// Watch следит за каталогом хранилища через fsnotify.
func (s *Store) Watch(ctx context.Context, debounce time.Duration, onChange func(ctx context.Context, keys []string)) error {
	log := logger.Log(ctx).With(zap.String("method", "file.Watch"), zap.String("dir", s.dir))

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrCreateWatcher, err)
	}
	defer w.Close()

	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("%s: %w", ErrWatchDir, err)
	}
	log.Debug(ctx, logWatchStart)

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			key, ok := keyFromEvent(ev)
			if !ok {
				continue
			}
			if len(pending) == 0 {
				timer.Reset(debounce)
			}
			pending[key] = struct{}{}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				for _, k := range store.AllKeys {
					pending[k] = struct{}{}
				}
				timer.Reset(debounce)
				continue
			}
			log.Warn(ctx, logWatchError, zap.Error(err))
		case <-timer.C:
			keys := make([]string, 0, len(pending))
			for k := range pending {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			clear(pending)
			onChange(ctx, keys)
		}
	}
}

// keyFromEvent возвращает ключ блоба для события. Временные файлы пропускаются.
func keyFromEvent(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return "", false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, tempFilePrefix) || !strings.HasSuffix(name, fileExtension) {
		return "", false
	}
	key := strings.TrimSuffix(name, fileExtension)
	if !keyPattern.MatchString(key) {
		return "", false
	}
	return key, true
}
