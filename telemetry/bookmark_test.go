package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Outbreak(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := range 5 {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Infections: 2})
	}

	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 3000, Infections: 10}), BookmarkOutbreak) {
		t.Error("expected outbreak bookmark")
	}
}

func TestBookmarkDetector_SmallSpikeIgnored(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := range 5 {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), DeathsStarved: 1})
	}

	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 3000, DeathsStarved: 4}), BookmarkStarvationWave) {
		t.Error("spikes under the floor should not bookmark")
	}
}

func TestBookmarkDetector_PlantEaterCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := range 5 {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), PlantEaters: 100, BodyEaters: 10})
	}

	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 3000, PlantEaters: 50, BodyEaters: 10}), BookmarkPlantEaterCrash) {
		t.Error("expected plant_eater_crash bookmark")
	}
}

func TestBookmarkDetector_BodyEaterRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := range 3 {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), PlantEaters: 100, BodyEaters: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2400, PlantEaters: 100, BodyEaters: 10})
	if !hasBookmark(bookmarks, BookmarkBodyEaterRecovery) {
		t.Error("expected body_eater_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystemFiresOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := range 15 {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 600), PlantEaters: 100, BodyEaters: 20})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("stable_ecosystem fired %d times, want 1", fired)
	}
}
