package player

import (
	"net/http"
	"testing"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Stopped, "Stopped"},
		{Playing, "Playing"},
		{Paused, "Paused"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	if Stopped.IsActive() {
		t.Error("Stopped should not be active")
	}
	if !Playing.IsActive() {
		t.Error("Playing should be active")
	}
	if !Paused.IsActive() {
		t.Error("Paused should be active")
	}
}

func TestMock_Transitions(t *testing.T) {
	m := NewMock()

	if err := m.Play("http://example/stream.mp3"); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if m.State() != Playing {
		t.Errorf("State() = %v after Play, want Playing", m.State())
	}

	m.Pause()
	if m.State() != Paused {
		t.Errorf("State() = %v after Pause, want Paused", m.State())
	}

	m.Toggle()
	if m.State() != Playing {
		t.Errorf("State() = %v after Toggle, want Playing", m.State())
	}

	m.Stop()
	if m.State() != Stopped {
		t.Errorf("State() = %v after Stop, want Stopped", m.State())
	}

	// Pause while stopped is ignored.
	m.Pause()
	if m.State() != Stopped {
		t.Error("Pause while Stopped should be a no-op")
	}
}

func TestMock_SeekUnsupported(t *testing.T) {
	m := NewMock()
	m.SetCanSeek(false)

	if err := m.SeekTo(10); err == nil {
		t.Fatal("SeekTo should fail when seeking is unsupported")
	}
	if len(m.SeekToCalls()) != 0 {
		t.Error("unsupported seek should not be recorded")
	}
}

func TestStreamFormat(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		url         string
		want        string
		wantErr     bool
	}{
		{"mpeg content type", "audio/mpeg", "http://h/stream", "mp3", false},
		{"flac content type", "audio/flac", "http://h/stream", "flac", false},
		{"wav content type with charset", "audio/wav; charset=binary", "http://h/s", "wav", false},
		{"extension fallback", "application/octet-stream", "http://h/track.flac?tok=1", "flac", false},
		{"mp3 extension", "", "http://h/song.MP3", "mp3", false},
		{"unknown", "application/octet-stream", "http://h/track.ogg", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.contentType != "" {
				resp.Header.Set("Content-Type", tt.contentType)
			}
			got, err := streamFormat(resp, tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("streamFormat() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("streamFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}
