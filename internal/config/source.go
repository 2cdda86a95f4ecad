package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Source is the ConfigSource component: Snapshot returns the current
// Config; Watch streams new snapshots whenever the environment changes.
// Hot-reload of the .env file and the cameras sidecar file is used as the
// change signal, a godotenv-at-startup load extended with a file watcher.
type Source struct {
	mu      sync.RWMutex
	current *Config
	subs    []chan *Config
}

// NewSource loads the initial Config. File watching starts only when Watch
// is called.
func NewSource() *Source {
	return &Source{current: Load()}
}

func (s *Source) Snapshot() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := *s.current
	return &cp
}

// Watch returns a channel of Config snapshots emitted whenever the backing
// .env file or the cameras sidecar file changes on disk. The channel is
// closed when stop fires.
func (s *Source) Watch(stop <-chan struct{}) <-chan *Config {
	ch := make(chan *Config, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("config: could not start file watcher, hot-reload disabled")
		close(ch)
		return ch
	}
	if err := watcher.Add(".env"); err != nil {
		log.Debug().Err(err).Msg("config: no .env to watch, hot-reload disabled")
	}
	if err := watcher.Add(s.Snapshot().CamerasPath); err != nil {
		log.Debug().Err(err).Msg("config: no cameras file to watch yet, hot-reload disabled until created")
	}

	go func() {
		defer watcher.Close()
		defer close(ch)
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				next := Load()
				s.mu.Lock()
				s.current = next
				s.mu.Unlock()
				select {
				case ch <- next:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("config: watcher error")
			}
		}
	}()

	return ch
}
