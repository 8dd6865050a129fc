package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pcharbon/chorus/internal/music"
)

func cursorWith(mode music.LoopMode, tracks ...string) *music.PlaylistQueueItem {
	return &music.PlaylistQueueItem{
		PlaylistID: "pl1",
		Name:       "Warmup",
		LoopMode:   mode,
		TrackOrder: tracks,
	}
}

func TestMoveNextOnce(t *testing.T) {
	c := cursorWith(music.LoopOnce, "a", "b", "c")

	assert.False(t, moveNext(c))
	assert.Equal(t, 1, c.CurrentTrackIndex)
	assert.False(t, moveNext(c))
	assert.Equal(t, 2, c.CurrentTrackIndex)
	assert.True(t, moveNext(c))
}

func TestMoveNextTwiceReplaysThenExhausts(t *testing.T) {
	c := cursorWith(music.LoopTwice, "a", "b", "c")

	var indices []int
	for i := 0; i < 5; i++ {
		assert.False(t, moveNext(c))
		indices = append(indices, c.CurrentTrackIndex)
	}
	// Second pass starts from the top with the mode demoted to once.
	assert.Equal(t, []int{1, 2, 0, 1, 2}, indices)
	assert.Equal(t, music.LoopOnce, c.LoopMode)
	assert.True(t, moveNext(c))
}

func TestMoveNextInfiniteWraps(t *testing.T) {
	c := cursorWith(music.LoopInfinite, "a", "b")

	for i := 0; i < 10; i++ {
		assert.False(t, moveNext(c))
	}
	assert.Equal(t, music.LoopInfinite, c.LoopMode)
}

func TestMovePreviousUnderflow(t *testing.T) {
	once := cursorWith(music.LoopOnce, "a", "b", "c")
	assert.False(t, movePrevious(once))
	assert.Equal(t, 0, once.CurrentTrackIndex)

	inf := cursorWith(music.LoopInfinite, "a", "b", "c")
	assert.True(t, movePrevious(inf))
	assert.Equal(t, 2, inf.CurrentTrackIndex)

	twice := cursorWith(music.LoopTwice, "a", "b", "c")
	assert.True(t, movePrevious(twice))
	assert.Equal(t, 2, twice.CurrentTrackIndex)
}

func TestMovePreviousMidList(t *testing.T) {
	c := cursorWith(music.LoopOnce, "a", "b", "c")
	c.CurrentTrackIndex = 2
	assert.True(t, movePrevious(c))
	assert.Equal(t, 1, c.CurrentTrackIndex)
}
