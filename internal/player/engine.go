package player

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/pcharbon/chorus/internal/music"
)

// ErrSeekUnsupported is returned by SeekTo when the current stream
// cannot seek (live or chunked streams with no known length).
var ErrSeekUnsupported = errors.New("seeking not supported for this stream")

// ErrUnsupportedFormat is returned by Play for codecs the engine cannot
// decode. The backend transcodes exotic codecs, so in practice this
// means a misconfigured proxy URL.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

// Engine is the beep-backed audio engine. It fetches a resolved stream
// URL over HTTP, buffers it to a temp file when the length is known
// (which makes the stream seekable), and decodes mp3/flac/wav.
type Engine struct {
	mu sync.Mutex

	httpClient *http.Client
	bufferLen  time.Duration

	state    State
	ctrl     *beep.Ctrl
	streamer beep.StreamSeekCloser
	format   beep.Format
	seekable bool
	duration time.Duration
	output   music.AudioOutputInfo
	tmpPath  string
	body     io.Closer

	finishedCh chan struct{}
}

// NewEngine creates an engine with the given speaker buffer length.
func NewEngine(bufferLen time.Duration) *Engine {
	if bufferLen <= 0 {
		bufferLen = 100 * time.Millisecond
	}
	return &Engine{
		// No overall timeout: a full track download is bounded by the
		// transfer, not a fixed deadline.
		httpClient: &http.Client{},
		bufferLen:  bufferLen,
		state:      Stopped,
		finishedCh: make(chan struct{}, 1),
	}
}

// Play stops any current stream and starts the one at streamURL.
func (e *Engine) Play(streamURL string) error {
	e.Stop()

	resp, err := e.httpClient.Get(streamURL)
	if err != nil {
		return fmt.Errorf("fetch stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return fmt.Errorf("fetch stream: status %d", resp.StatusCode)
	}

	format, err := streamFormat(resp, streamURL)
	if err != nil {
		resp.Body.Close()
		return err
	}

	var source io.ReadCloser = resp.Body
	seekable := false
	var tmpPath string
	if resp.ContentLength > 0 {
		// Known length: buffer to a temp file so the decoder can seek.
		tmp, err := os.CreateTemp("", "chorus-stream-*")
		if err == nil {
			if _, err = io.Copy(tmp, resp.Body); err == nil {
				if _, err = tmp.Seek(0, io.SeekStart); err == nil {
					resp.Body.Close()
					source = tmp
					seekable = true
					tmpPath = tmp.Name()
				}
			}
			if !seekable {
				tmp.Close()
				os.Remove(tmp.Name())
			}
		}
	}

	var streamer beep.StreamSeekCloser
	var beepFormat beep.Format
	switch format {
	case "mp3":
		streamer, beepFormat, err = mp3.Decode(source)
	case "flac":
		streamer, beepFormat, err = flac.Decode(source)
	case "wav":
		streamer, beepFormat, err = wav.Decode(source)
	}
	if err != nil {
		source.Close()
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
		return fmt.Errorf("decode %s: %w", format, err)
	}

	speakerOnce.Do(func() {
		speakerRate = beepFormat.SampleRate
		speakerErr = speaker.Init(speakerRate, speakerRate.N(e.bufferLen))
	})
	if speakerErr != nil {
		streamer.Close()
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
		return fmt.Errorf("init speaker: %w", speakerErr)
	}

	e.mu.Lock()
	e.streamer = streamer
	e.format = beepFormat
	e.seekable = seekable
	e.tmpPath = tmpPath
	e.body = source
	if n := streamer.Len(); n > 0 {
		e.duration = beepFormat.SampleRate.D(n)
	} else {
		e.duration = 0
	}
	e.output = music.AudioOutputInfo{
		HasInfo:    true,
		Format:     format,
		SampleRate: int(beepFormat.SampleRate),
		BitDepth:   beepFormat.Precision * 8,
	}
	if resp.ContentLength > 0 && e.duration > 0 {
		e.output.Bitrate = int(float64(resp.ContentLength*8) / e.duration.Seconds() / 1000)
	}

	var playable beep.Streamer = streamer
	if beepFormat.SampleRate != speakerRate {
		playable = beep.Resample(4, beepFormat.SampleRate, speakerRate, streamer)
	}
	e.ctrl = &beep.Ctrl{Streamer: playable, Paused: false}
	e.state = Playing
	e.mu.Unlock()

	speaker.Play(beep.Seq(e.ctrl, beep.Callback(e.onStreamEnd)))

	return nil
}

// onStreamEnd runs on the speaker goroutine when the stream drains.
func (e *Engine) onStreamEnd() {
	e.mu.Lock()
	e.state = Stopped
	e.mu.Unlock()
	select {
	case e.finishedCh <- struct{}{}:
	default:
	}
}

// Stop halts playback and releases the stream resources.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state == Stopped && e.streamer == nil {
		e.mu.Unlock()
		return
	}

	speaker.Clear()

	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.body != nil {
		e.body.Close()
		e.body = nil
	}
	if e.tmpPath != "" {
		os.Remove(e.tmpPath)
		e.tmpPath = ""
	}

	e.ctrl = nil
	e.duration = 0
	e.output = music.AudioOutputInfo{}
	e.state = Stopped
	e.mu.Unlock()
}

// Pause pauses playback.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Playing || e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	e.state = Paused
}

// Resume resumes paused playback.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Paused || e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	e.state = Playing
}

// Toggle toggles between playing and paused.
func (e *Engine) Toggle() {
	switch e.State() {
	case Playing:
		e.Pause()
	case Paused:
		e.Resume()
	case Stopped:
		// Nothing to toggle when stopped.
	}
}

// State returns the engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Position returns the current playback position.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.format.SampleRate.D(e.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration returns the current track duration (0 if unknown).
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// CanSeek reports whether the current stream supports seeking.
func (e *Engine) CanSeek() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seekable && e.streamer != nil
}

// SeekTo moves to an absolute position within the current stream.
func (e *Engine) SeekTo(position time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil || e.state == Stopped {
		return ErrSeekUnsupported
	}
	if !e.seekable {
		return ErrSeekUnsupported
	}

	n := e.format.SampleRate.N(position)
	n = max(n, 0)
	if total := e.streamer.Len(); total > 0 && n > total {
		n = total
	}

	speaker.Lock()
	err := e.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// OutputInfo returns decoder/output metadata for the current stream.
func (e *Engine) OutputInfo() music.AudioOutputInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.output
}

// FinishedChan signals naturally completed tracks.
func (e *Engine) FinishedChan() <-chan struct{} {
	return e.finishedCh
}

// streamFormat picks a decoder from the Content-Type header, falling
// back to the URL path extension.
func streamFormat(resp *http.Response, streamURL string) (string, error) {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			switch mediaType {
			case "audio/mpeg", "audio/mp3":
				return "mp3", nil
			case "audio/flac", "audio/x-flac":
				return "flac", nil
			case "audio/wav", "audio/x-wav", "audio/wave":
				return "wav", nil
			}
		}
	}

	ext := ""
	if u, err := url.Parse(streamURL); err == nil {
		ext = strings.ToLower(path.Ext(u.Path))
	}
	switch ext {
	case ".mp3":
		return "mp3", nil
	case ".flac":
		return "flac", nil
	case ".wav":
		return "wav", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, streamURL)
}
