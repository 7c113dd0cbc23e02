package components

// Default display markers, one per Kind.
const (
	MarkerWater    = '-'
	MarkerPrey     = 'f'
	MarkerPredator = 'S'
	MarkerObstacle = '#'
	MarkerBorder   = '*'
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// KindNames returns the display names for all kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"Water", "Obstacle", "Prey", "Predator"}
}

// Marker returns the default single-character marker for a Kind.
func (k Kind) Marker() rune {
	switch k {
	case KindObstacle:
		return MarkerObstacle
	case KindPrey:
		return MarkerPrey
	case KindPredator:
		return MarkerPredator
	default:
		return MarkerWater
	}
}
