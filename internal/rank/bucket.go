package rank

// Priority tiers. Bucket is intentionally a fixed function of the score so
// that a lead's priority can always be recomputed from its score alone.
const (
	PriorityP0 = "P0"
	PriorityP1 = "P1"
	PriorityP2 = "P2"
)

func Bucket(score int) string {
	switch {
	case score >= 70:
		return PriorityP0
	case score >= 45:
		return PriorityP1
	default:
		return PriorityP2
	}
}
