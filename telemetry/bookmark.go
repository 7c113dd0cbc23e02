package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
	BookmarkExtinction       BookmarkType = "extinction"
)

// Detection thresholds.
const (
	preyCrashDrop       = 0.30 // fraction below recent peak
	preyCrashMinDrop    = 10
	predRecoveryMaxLow  = 3
	predRecoveryFactor  = 3
	predRecoveryMinPred = 6
	stableMinPrey       = 10
	stableMinPred       = 3
	stableMaxCV         = 0.2
	stableWindows       = 5
	stableSpan          = 4 // windows compared for variance
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Iteration   int          `csv:"iteration"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"iteration", b.Iteration,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPredMin      int // minimum predator count in recent history
	recentPreyPeak     int // peak prey count in recent history
	stableWindowsCount int // consecutive windows with stable populations
	extinct            bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindows {
		historySize = stableWindows // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Predators < bd.recentPredMin || bd.recentPredMin == 0 {
		bd.recentPredMin = stats.Predators
	}
	if stats.Prey > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.Prey
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the latest history entries, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	n = min(n, size)
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if bd.extinct || (stats.Predators > 0 && stats.Prey > 0) {
		return nil
	}
	bd.extinct = true

	species := "prey"
	if stats.Predators == 0 {
		species = "predators"
	}
	return &Bookmark{
		Type:        BookmarkExtinction,
		Iteration:   stats.WindowEnd,
		Description: fmt.Sprintf("%s extinct at iteration %d", species, stats.WindowEnd),
	}
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	if bd.recentPredMin == 0 || bd.recentPredMin > predRecoveryMaxLow {
		return nil
	}

	threshold := bd.recentPredMin * predRecoveryFactor
	if stats.Predators >= threshold && stats.Predators >= predRecoveryMinPred {
		// Reset the minimum after triggering
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.Predators

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Iteration:   stats.WindowEnd,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, stats.Predators),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Prey)/float64(bd.recentPreyPeak)
	if dropPercent > preyCrashDrop && stats.Prey < bd.recentPreyPeak-preyCrashMinDrop {
		// Reset peak after crash
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.Prey

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Iteration:   stats.WindowEnd,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Prey),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	// Need both populations present
	if stats.Prey < stableMinPrey || stats.Predators < stableMinPred {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.recent(stableSpan)
	if len(history) < stableSpan {
		return nil
	}

	prey := make([]float64, len(history))
	pred := make([]float64, len(history))
	for i, h := range history {
		prey[i] = float64(h.Prey)
		pred[i] = float64(h.Predators)
	}

	if coefficientOfVariation(prey) < stableMaxCV && coefficientOfVariation(pred) < stableMaxCV {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == stableWindows { // trigger exactly once
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Iteration:   stats.WindowEnd,
			Description: fmt.Sprintf("Stable ecosystem with %d prey, %d predators over %d+ windows", stats.Prey, stats.Predators, stableWindows),
		}
	}

	return nil
}

// coefficientOfVariation returns stddev/mean, or 0 for a zero mean.
func coefficientOfVariation(x []float64) float64 {
	mean, std := stat.PopMeanStdDev(x, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
