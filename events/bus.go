// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package events

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Listener interface {
	HandleEvent(e Event)
}

type ListenerFunc func(e Event)

func (f ListenerFunc) HandleEvent(e Event) {
	f(e)
}

// Bus fans committed events out to subscribed listeners
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

func NewBus(listeners ...Listener) *Bus {
	return &Bus{
		listeners: listeners,
	}
}

func (b *Bus) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Publish delivers events in order to every listener
func (b *Bus) Publish(evts []Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, e := range evts {
		for _, l := range b.listeners {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Error().Msgf("panic occured while handling event %+v: %v", e, r)
					}
				}()
				l.HandleEvent(e)
			}()
		}
	}
}

// LogListener logs every event
type LogListener struct {
	log zerolog.Logger
}

func NewLogListener(logger zerolog.Logger) *LogListener {
	return &LogListener{
		log: logger,
	}
}

func (l *LogListener) HandleEvent(e Event) {
	l.log.Info().Str("event", string(e.Sig())).Msgf("%+v", e)
}

// Recorder keeps every received event
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) HandleEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
