// Package watch wraps fsnotify for suite re-evaluation: OS-native change
// notifications mapped onto a small op set, with write debouncing so editors
// that write in bursts trigger one re-run.
package watch

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op is a bitmask of file operations.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is a single file change.
type Event struct {
	Path string
	Op   Op
}

// Watcher delivers file change events over channels.
type Watcher struct {
	w         *fsnotify.Watcher
	evC       chan Event
	erC       chan error
	closeOnce sync.Once
}

// New creates a Watcher and starts its delivery loop.
func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{w: w, evC: make(chan Event, 128), erC: make(chan error, 1)}
	go fw.loop()

	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.evC)

	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			var op Op
			if ev.Op&fsnotify.Create != 0 {
				op |= OpCreate
			}
			if ev.Op&fsnotify.Write != 0 {
				op |= OpWrite
			}
			if ev.Op&fsnotify.Remove != 0 {
				op |= OpRemove
			}
			if ev.Op&fsnotify.Rename != 0 {
				op |= OpRename
			}
			if ev.Op&fsnotify.Chmod != 0 {
				op |= OpChmod
			}
			fw.evC <- Event{Path: ev.Name, Op: op}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			fw.erC <- err
		}
	}
}

// Events returns the event channel. It is closed when the watcher closes.
func (fw *Watcher) Events() <-chan Event { return fw.evC }

// Errors returns the error channel.
func (fw *Watcher) Errors() <-chan error { return fw.erC }

// Add starts watching a path.
func (fw *Watcher) Add(name string) error { return fw.w.Add(name) }

// Close stops the watcher. Safe to call more than once.
func (fw *Watcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		err = fw.w.Close()
	})

	return err
}

// Debounce forwards events from in, collapsing bursts: after an event
// arrives, further events within d are merged into it and a single combined
// event is emitted once the input goes quiet. The returned channel closes
// when in closes.
func Debounce(in <-chan Event, d time.Duration) <-chan Event {
	out := make(chan Event, 1)

	go func() {
		defer close(out)

		var (
			pending     Event
			havePending bool
			timer       *time.Timer
			fire        <-chan time.Time
		)
		for {
			select {
			case ev, ok := <-in:
				if !ok {
					if havePending {
						out <- pending
					}
					return
				}
				if havePending {
					pending.Op |= ev.Op
					pending.Path = ev.Path
					timer.Reset(d)
					continue
				}
				pending = ev
				havePending = true
				timer = time.NewTimer(d)
				fire = timer.C
			case <-fire:
				out <- pending
				havePending = false
				fire = nil
			}
		}
	}()

	return out
}
