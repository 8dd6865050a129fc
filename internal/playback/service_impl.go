package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
	"github.com/pcharbon/chorus/internal/player"
)

const (
	// Position poll cadence. The background interval stays coarse so a
	// backgrounded client never desyncs its position from the engine.
	foregroundPollInterval = 200 * time.Millisecond
	backgroundPollInterval = 500 * time.Millisecond

	outputPollInterval = 3 * time.Second

	// Completion heuristic: position within this window of the duration
	// while the engine reports not-playing counts as "finished", after a
	// debounce re-check. The engine's finished signal is the primary
	// path; the heuristic covers streams where it never fires.
	completionWindow   = time.Second
	completionDebounce = 250 * time.Millisecond
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.RWMutex

	engine   player.Interface
	resolver StreamResolver
	source   TrackSource
	log      zerolog.Logger

	state      State
	current    *music.Track
	position   time.Duration
	duration   time.Duration
	output     music.AudioOutputInfo
	lastError  string
	background bool

	advancing      bool
	checkScheduled bool

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// New creates a playback coordinator and starts its watch loop.
func New(engine player.Interface, resolver StreamResolver, source TrackSource, log zerolog.Logger) Service {
	s := &serviceImpl{
		engine:   engine,
		resolver: resolver,
		source:   source,
		log:      log,
		state:    StateIdle,
		done:     make(chan struct{}),
	}
	go s.watchLoop()
	return s
}

// PlayTrack resolves the track's stream and starts it. clearQueue
// empties both the plain queue and the playlist-queue first so "play
// now" semantics are unambiguous.
func (s *serviceImpl) PlayTrack(ctx context.Context, track music.Track, clearQueue bool) error {
	s.mu.Lock()
	prevState := s.state
	prevTrack := s.current
	trackCopy := track
	s.state = StateLoading
	s.current = &trackCopy
	s.lastError = ""
	s.mu.Unlock()

	s.publishState(prevState, StateLoading)
	s.publishTrack(prevTrack, &trackCopy)

	if clearQueue {
		if err := s.source.ClearAll(ctx); err != nil {
			// Playback still proceeds; the queue will resync on reload.
			s.log.Warn().Err(err).Msg("clear queue before play failed")
		}
	}

	streamURL := track.StreamURL
	if streamURL == "" {
		resolved, err := s.resolver.ResolveStreamURL(ctx, track)
		if err != nil {
			return s.failPlay(err)
		}
		streamURL = resolved
	}

	if err := s.engine.Play(streamURL); err != nil {
		return s.failPlay(err)
	}

	s.mu.Lock()
	s.state = StatePlaying
	s.position = 0
	if d := s.engine.Duration(); d > 0 {
		s.duration = d
	} else {
		s.duration = track.DurationTime()
	}
	s.mu.Unlock()

	s.publishState(StateLoading, StatePlaying)
	s.log.Debug().Str("track", track.Title).Str("source", string(track.Source)).Msg("playback started")
	return nil
}

// failPlay rolls back to idle/no-current-track and retains a
// human-readable error.
func (s *serviceImpl) failPlay(err error) error {
	msg := describePlayError(err)

	s.mu.Lock()
	prevState := s.state
	prevTrack := s.current
	s.state = StateIdle
	s.current = nil
	s.duration = 0
	s.position = 0
	s.lastError = msg
	s.mu.Unlock()

	s.publishState(prevState, StateIdle)
	s.publishTrack(prevTrack, nil)
	s.publishError(ErrorEvent{Operation: "play", Message: msg, Err: err})
	return fmt.Errorf("play track: %w", err)
}

// describePlayError distinguishes the failure classes users care
// about: slow network, unsupported service, unsupported codec.
func describePlayError(err error) string {
	var backendErr *api.BackendError
	switch {
	case errors.Is(err, api.ErrTimeout):
		return "stream resolution timed out; check your connection"
	case errors.Is(err, player.ErrUnsupportedFormat):
		return "unsupported audio codec"
	case errors.Is(err, api.ErrUnsupported):
		return "streaming service not supported for this track"
	case errors.As(err, &backendErr):
		return "backend refused to resolve the stream: " + backendErr.Message
	default:
		return "playback failed: " + err.Error()
	}
}

// TogglePlayPause pauses if playing, otherwise resumes or starts.
func (s *serviceImpl) TogglePlayPause(ctx context.Context) error {
	s.mu.Lock()
	state := s.state
	current := s.current
	s.mu.Unlock()

	switch state {
	case StatePlaying:
		s.engine.Pause()
		s.setState(StatePaused)
		return nil
	case StatePaused:
		s.engine.Resume()
		s.setState(StatePlaying)
		return nil
	case StateStopped:
		if current != nil {
			return s.PlayTrack(ctx, *current, false)
		}
		return s.PlayNext(ctx)
	case StateIdle, StateLoading:
		if state == StateLoading {
			return nil
		}
		return s.PlayNext(ctx)
	default:
		return nil
	}
}

// SeekTo validates, forwards to the engine, and keeps the coordinator
// renderable even when the engine refuses.
func (s *serviceImpl) SeekTo(position time.Duration) error {
	s.mu.RLock()
	state := s.state
	duration := s.duration
	s.mu.RUnlock()

	if !state.IsActive() {
		return errors.New("seek: no active track")
	}
	if position < 0 || (duration > 0 && position > duration) {
		return fmt.Errorf("seek: position %v outside [0, %v]", position, duration)
	}
	if !s.engine.CanSeek() {
		err := fmt.Errorf("seek: %w", player.ErrSeekUnsupported)
		s.retainError("seeking is not supported for this stream")
		s.publishError(ErrorEvent{Operation: "seek", Message: "seeking is not supported for this stream", Err: err})
		return err
	}

	if err := s.engine.SeekTo(position); err != nil {
		// Optimistic fallback: track the requested position locally so
		// the UI does not appear frozen, without claiming the engine
		// actually moved.
		s.mu.Lock()
		s.position = position
		s.mu.Unlock()
		s.publishPosition()
		s.publishError(ErrorEvent{Operation: "seek", Message: "seek failed", Err: err})
		return fmt.Errorf("seek: %w", err)
	}

	s.mu.Lock()
	s.position = position
	s.mu.Unlock()
	s.publishPosition()
	return nil
}

// Stop halts playback. Stopped is terminal until a new PlayTrack; the
// current track stays visible for display.
func (s *serviceImpl) Stop() {
	s.engine.Stop()
	s.setState(StateStopped)
}

// PlayNext advances using the queue resolution order.
func (s *serviceImpl) PlayNext(ctx context.Context) error {
	next, err := s.source.ResolveNext(ctx)
	if err != nil {
		msg := "could not determine the next track"
		s.retainError(msg)
		s.publishError(ErrorEvent{Operation: "advance", Message: msg, Err: err})
		return fmt.Errorf("play next: %w", err)
	}
	if next == nil {
		s.becomeIdle()
		return nil
	}
	return s.PlayTrack(ctx, *next, false)
}

// PlayPrevious steps back within the playlist-queue.
func (s *serviceImpl) PlayPrevious(ctx context.Context) error {
	prev, err := s.source.ResolvePrevious(ctx)
	if err != nil {
		msg := "could not determine the previous track"
		s.retainError(msg)
		s.publishError(ErrorEvent{Operation: "previous", Message: msg, Err: err})
		return fmt.Errorf("play previous: %w", err)
	}
	if prev == nil {
		return nil
	}
	return s.PlayTrack(ctx, *prev, false)
}

// State returns the coordinator state.
func (s *serviceImpl) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentTrack returns the current track, or nil if none.
func (s *serviceImpl) CurrentTrack() *music.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	t := *s.current
	return &t
}

// Position returns the last observed playback position.
func (s *serviceImpl) Position() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// Duration returns the current track duration.
func (s *serviceImpl) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.duration
}

// OutputInfo returns the last polled audio-output metadata.
func (s *serviceImpl) OutputInfo() music.AudioOutputInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.output
}

// LastError returns the retained human-readable error ("" when none).
func (s *serviceImpl) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// SetBackground toggles background mode: position keeps being polled
// (coarsely) but per-tick notifications are suppressed.
func (s *serviceImpl) SetBackground(background bool) {
	s.mu.Lock()
	s.background = background
	s.mu.Unlock()
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close shuts down the coordinator and its timers.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.engine.Stop()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return nil
}

// watchLoop is the single goroutine observing the engine: position
// ticks, output-info polls, and completion signals.
func (s *serviceImpl) watchLoop() {
	poll := time.NewTimer(s.pollInterval())
	defer poll.Stop()
	output := time.NewTicker(outputPollInterval)
	defer output.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-s.engine.FinishedChan():
			s.handleTrackFinished()
		case <-poll.C:
			s.tick()
			poll.Reset(s.pollInterval())
		case <-output.C:
			s.pollOutputInfo()
		}
	}
}

func (s *serviceImpl) pollInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.background {
		return backgroundPollInterval
	}
	return foregroundPollInterval
}

// tick refreshes position/duration from the engine and runs the
// completion heuristic.
func (s *serviceImpl) tick() {
	s.mu.Lock()
	if !s.state.IsActive() {
		s.mu.Unlock()
		return
	}

	pos := s.engine.Position()
	dur := s.engine.Duration()
	if dur <= 0 {
		dur = s.duration
	}
	changed := pos != s.position || dur != s.duration
	s.position = pos
	s.duration = dur
	background := s.background

	// Heuristic completion: near the end and the engine no longer
	// reports playing, while we still think a track is in flight. The
	// engine's explicit signal is not guaranteed on every stream.
	needCheck := s.state == StatePlaying &&
		s.engine.State() != player.Playing &&
		dur > 0 && dur-pos <= completionWindow &&
		!s.advancing && !s.checkScheduled
	if needCheck {
		s.checkScheduled = true
	}
	s.mu.Unlock()

	if changed && !background {
		s.publishPosition()
	}
	if needCheck {
		time.AfterFunc(completionDebounce, s.recheckCompletion)
	}
}

// recheckCompletion re-evaluates the heuristic after the debounce; the
// position and engine state arrive from independent callbacks, so a
// single observation is not trusted.
func (s *serviceImpl) recheckCompletion() {
	s.mu.Lock()
	s.checkScheduled = false
	stillEnding := s.state == StatePlaying &&
		s.engine.State() != player.Playing &&
		s.duration > 0 && s.duration-s.engine.Position() <= completionWindow &&
		!s.advancing
	s.mu.Unlock()

	if stillEnding {
		s.handleTrackFinished()
	}
}

// handleTrackFinished advances to the next track. Both the explicit
// engine signal and the heuristic funnel through here; the advancing
// flag deduplicates them.
func (s *serviceImpl) handleTrackFinished() {
	s.mu.Lock()
	if s.advancing || !s.state.IsActive() {
		s.mu.Unlock()
		return
	}
	s.advancing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.advancing = false
		s.mu.Unlock()
	}()

	if err := s.PlayNext(context.Background()); err != nil {
		s.log.Warn().Err(err).Msg("auto-advance failed")
	}
}

func (s *serviceImpl) pollOutputInfo() {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	info := s.engine.OutputInfo()
	changed := info != s.output
	s.output = info
	background := s.background
	s.mu.Unlock()

	if changed && !background {
		s.publishOutput(info)
	}
}

// becomeIdle is the end-of-material transition.
func (s *serviceImpl) becomeIdle() {
	s.engine.Stop()

	s.mu.Lock()
	prevState := s.state
	prevTrack := s.current
	s.state = StateIdle
	s.current = nil
	s.position = 0
	s.duration = 0
	s.mu.Unlock()

	s.publishState(prevState, StateIdle)
	s.publishTrack(prevTrack, nil)
}

func (s *serviceImpl) setState(next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()
	if prev != next {
		s.publishState(prev, next)
	}
}

func (s *serviceImpl) retainError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}

// Event publication

func (s *serviceImpl) publishState(prev, curr State) {
	if prev == curr {
		return
	}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(StateChange{Previous: prev, Current: curr})
	}
}

func (s *serviceImpl) publishTrack(prev, curr *music.Track) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(TrackChange{Previous: prev, Current: curr})
	}
}

func (s *serviceImpl) publishPosition() {
	s.mu.RLock()
	e := PositionChange{Position: s.position, Duration: s.duration}
	s.mu.RUnlock()

	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPosition(e)
	}
}

func (s *serviceImpl) publishOutput(info music.AudioOutputInfo) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendOutput(OutputInfoChange{Info: info})
	}
}

func (s *serviceImpl) publishError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}
