package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

type ChangeKind uint8

const (
	ChangeScene ChangeKind = iota + 1
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeScene:
		return "scene"
	case ChangeScript:
		return "script"
	default:
		return "unknown"
	}
}

// Change is an edit to a file a running scene may depend on.
type Change struct {
	Path    string
	Kind    ChangeKind
	Removed bool
}

// Affects reports whether the scene named scene must be rebuilt after c.
// Any script change counts because scenes name scripts by path.
func (c Change) Affects(scene string) bool {
	switch c.Kind {
	case ChangeScript:
		return true
	case ChangeScene:
		return filepath.Base(c.Path) == filepath.Base(scene)
	default:
		return false
	}
}

// classifyChange maps a filesystem event to a Change. Events on other files
// and attribute-only events are dropped.
func classifyChange(event fsnotify.Event) (Change, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return Change{}, false
	}
	c := Change{
		Path:    event.Name,
		Removed: event.Op&(fsnotify.Rename|fsnotify.Remove) != 0,
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".yaml", ".yml":
		c.Kind = ChangeScene
	case ".tengo":
		c.Kind = ChangeScript
	default:
		return Change{}, false
	}
	return c, true
}

// debouncer drops repeats of the same path inside reloadDebounce. Editors
// often write a file several times per save.
type debouncer struct {
	window time.Duration
	last   map[string]time.Time
}

func (d *debouncer) allow(path string, now time.Time) bool {
	if t, ok := d.last[path]; ok && now.Sub(t) < d.window {
		return false
	}
	d.last[path] = now
	return true
}

// Watcher reports Changes to scene and script files. Changes and Errors are
// closed once the watcher stops.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fw,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.pump()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// pump owns Changes and Errors and closes them on exit.
func (w *Watcher) pump() {
	defer close(w.Changes)
	defer close(w.Errors)

	d := debouncer{window: reloadDebounce, last: make(map[string]time.Time)}
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			c, ok := classifyChange(event)
			if !ok || !d.allow(c.Path, time.Now()) {
				continue
			}
			select {
			case w.Changes <- c:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}
