package queue

import "github.com/pcharbon/chorus/internal/music"

// moveNext advances a playlist-queue cursor, applying the loop mode on
// wraparound. Returns true when the cursor is exhausted and the item
// should be removed (loop mode once).
func moveNext(item *music.PlaylistQueueItem) (removed bool) {
	item.CurrentTrackIndex++
	if item.CurrentTrackIndex < len(item.TrackOrder) {
		return false
	}

	switch item.LoopMode {
	case music.LoopOnce:
		return true
	case music.LoopTwice:
		// One replay from the top, then behave as once.
		item.CurrentTrackIndex = 0
		item.LoopMode = music.LoopOnce
	case music.LoopInfinite:
		item.CurrentTrackIndex = 0
	default:
		return true
	}
	return false
}

// movePrevious steps a cursor backwards. On underflow, once refuses to
// move; twice and infinite wrap to the last index. Returns false when
// the cursor did not move.
func movePrevious(item *music.PlaylistQueueItem) (moved bool) {
	if item.CurrentTrackIndex > 0 {
		item.CurrentTrackIndex--
		return true
	}
	if item.LoopMode == music.LoopOnce {
		return false
	}
	if len(item.TrackOrder) == 0 {
		return false
	}
	item.CurrentTrackIndex = len(item.TrackOrder) - 1
	return true
}
