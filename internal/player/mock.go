package player

import (
	"sync"
	"time"

	"github.com/pcharbon/chorus/internal/music"
)

// Mock is a test double for the engine.
type Mock struct {
	mu sync.Mutex

	state       State
	position    time.Duration
	duration    time.Duration
	output      music.AudioOutputInfo
	canSeek     bool
	playErr     error
	seekErr     error
	playCalls   []string
	seekToCalls []time.Duration
	finishedCh  chan struct{}
}

// NewMock creates a new mock engine for testing. Seeking is enabled by
// default.
func NewMock() *Mock {
	return &Mock{
		state:      Stopped,
		canSeek:    true,
		finishedCh: make(chan struct{}, 1),
	}
}

func (m *Mock) Play(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls = append(m.playCalls, url)
	if m.playErr != nil {
		return m.playErr
	}
	m.state = Playing
	m.position = 0
	return nil
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Stopped
	m.position = 0
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Paused {
		m.state = Playing
	}
}

func (m *Mock) Toggle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case Playing:
		m.state = Paused
	case Paused:
		m.state = Playing
	case Stopped:
		// Nothing to toggle when stopped.
	}
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) CanSeek() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canSeek
}

func (m *Mock) SeekTo(position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.canSeek {
		return ErrSeekUnsupported
	}
	m.seekToCalls = append(m.seekToCalls, position)
	if m.seekErr != nil {
		return m.seekErr
	}
	m.position = position
	return nil
}

func (m *Mock) OutputInfo() music.AudioOutputInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.output
}

func (m *Mock) FinishedChan() <-chan struct{} {
	return m.finishedCh
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetCanSeek(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canSeek = v
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetSeekError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekErr = err
}

func (m *Mock) SetOutputInfo(info music.AudioOutputInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.output = info
}

func (m *Mock) PlayCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.playCalls...)
}

func (m *Mock) SeekToCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekToCalls...)
}

// SimulateFinished simulates a track finishing naturally.
func (m *Mock) SimulateFinished() {
	m.mu.Lock()
	m.state = Stopped
	m.mu.Unlock()
	select {
	case m.finishedCh <- struct{}{}:
	default:
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
