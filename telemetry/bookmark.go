package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkOutbreak          BookmarkType = "outbreak"
	BookmarkStarvationWave    BookmarkType = "starvation_wave"
	BookmarkBodyEaterRecovery BookmarkType = "body_eater_recovery"
	BookmarkPlantEaterCrash   BookmarkType = "plant_eater_crash"
	BookmarkStableEcosystem   BookmarkType = "stable_ecosystem"
)

const (
	stableWindowsForBookmark = 5
	minBookmarkHistory       = 3
)

// Bookmark marks a window worth looking at again.
type Bookmark struct {
	Type        BookmarkType
	Tick        int32
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector watches window stats for sudden shifts in the ecosystem.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentBodyEaterMin  int
	recentPlantEaterMax int
	stableWindows       int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	historySize = max(historySize, stableWindowsForBookmark)
	return &BookmarkDetector{
		history:            make([]WindowStats, historySize),
		historySize:        historySize,
		recentBodyEaterMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkOutbreak,
			bd.checkStarvationWave,
			bd.checkBodyEaterRecovery,
			bd.checkPlantEaterCrash,
			bd.checkStableEcosystem,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(stats)

	if bd.recentBodyEaterMin < 0 || stats.BodyEaters < bd.recentBodyEaterMin {
		bd.recentBodyEaterMin = stats.BodyEaters
	}
	bd.recentPlantEaterMax = max(bd.recentPlantEaterMax, stats.PlantEaters)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

// spike reports a window value more than twice its rolling average.
func (bd *BookmarkDetector) spike(value, floor int, field func(WindowStats) int) (avg float64, ok bool) {
	history := bd.getHistory()
	if len(history) < minBookmarkHistory || value < floor {
		return 0, false
	}
	total := 0
	for _, h := range history {
		total += field(h)
	}
	avg = float64(total) / float64(len(history))
	return avg, float64(value) > 2*avg
}

func (bd *BookmarkDetector) checkOutbreak(stats WindowStats) *Bookmark {
	avg, ok := bd.spike(stats.Infections, 5, func(w WindowStats) int { return w.Infections })
	if !ok {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkOutbreak,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d infections against an average of %.1f", stats.Infections, avg),
	}
}

func (bd *BookmarkDetector) checkStarvationWave(stats WindowStats) *Bookmark {
	avg, ok := bd.spike(stats.DeathsStarved, 5, func(w WindowStats) int { return w.DeathsStarved })
	if !ok {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStarvationWave,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d starved against an average of %.1f", stats.DeathsStarved, avg),
	}
}

func (bd *BookmarkDetector) checkBodyEaterRecovery(stats WindowStats) *Bookmark {
	if bd.recentBodyEaterMin < 1 || bd.recentBodyEaterMin > 3 {
		return nil
	}
	if stats.BodyEaters < bd.recentBodyEaterMin*3 || stats.BodyEaters < 6 {
		return nil
	}
	oldMin := bd.recentBodyEaterMin
	bd.recentBodyEaterMin = stats.BodyEaters
	return &Bookmark{
		Type:        BookmarkBodyEaterRecovery,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Body eaters recovered from %d to %d", oldMin, stats.BodyEaters),
	}
}

func (bd *BookmarkDetector) checkPlantEaterCrash(stats WindowStats) *Bookmark {
	if bd.recentPlantEaterMax == 0 {
		return nil
	}
	drop := 1 - float64(stats.PlantEaters)/float64(bd.recentPlantEaterMax)
	if drop <= 0.30 || stats.PlantEaters >= bd.recentPlantEaterMax-10 {
		return nil
	}
	oldPeak := bd.recentPlantEaterMax
	bd.recentPlantEaterMax = stats.PlantEaters
	return &Bookmark{
		Type:        BookmarkPlantEaterCrash,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Plant eaters crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.PlantEaters),
	}
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.PlantEaters < 10 || stats.BodyEaters < 3 {
		bd.stableWindows = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	plantEaters := make([]float64, len(recent))
	bodyEaters := make([]float64, len(recent))
	for i, h := range recent {
		plantEaters[i] = float64(h.PlantEaters)
		bodyEaters[i] = float64(h.BodyEaters)
	}

	// Coefficient of variation under 20% for both diets
	if cv(plantEaters) < 0.2 && cv(bodyEaters) < 0.2 {
		bd.stableWindows++
	} else {
		bd.stableWindows = 0
	}

	if bd.stableWindows != stableWindowsForBookmark {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStableEcosystem,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Stable ecosystem with %d plant eaters, %d body eaters over %d windows", stats.PlantEaters, stats.BodyEaters, stableWindowsForBookmark),
	}
}

func cv(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
