package game

import "math"

// trailMinSpacing is the minimum world-space distance between recorded trail
// points. Bounds trail memory regardless of how long an excursion lasts.
const trailMinSpacing = 4.0

// Trail is the ordered point sequence an agent draws while outside its own
// territory. Cleared on re-entry and on death.
type Trail struct {
	pts [][2]float64
}

// Append records (x, y) unless it is within trailMinSpacing of the last point.
func (t *Trail) Append(x, y float64) {
	if n := len(t.pts); n > 0 {
		last := t.pts[n-1]
		if distSq(x, y, last[0], last[1]) < trailMinSpacing*trailMinSpacing {
			return
		}
	}
	t.pts = append(t.pts, [2]float64{x, y})
}

// Len returns the number of recorded points.
func (t *Trail) Len() int {
	return len(t.pts)
}

// Points returns the recorded points, oldest first. Callers must not mutate.
func (t *Trail) Points() [][2]float64 {
	return t.pts
}

// Reset discards all points but keeps the backing array for reuse.
func (t *Trail) Reset() {
	t.pts = t.pts[:0]
}

// Oldest returns the first recorded point, or false if the trail is empty.
func (t *Trail) Oldest() ([2]float64, bool) {
	if len(t.pts) == 0 {
		return [2]float64{}, false
	}
	return t.pts[0], true
}

// NearestDistSq returns the squared distance from (x, y) to the trail,
// measured against both points and the segments between consecutive points,
// ignoring the most recent skipRecent points (the head region is always near
// the agent that drew it). Returns math.MaxFloat64 if nothing is eligible.
func (t *Trail) NearestDistSq(x, y float64, skipRecent int) float64 {
	limit := len(t.pts) - skipRecent
	if limit <= 0 {
		return math.MaxFloat64
	}
	best := math.MaxFloat64
	for i := 0; i < limit; i++ {
		p := t.pts[i]
		if d := distSq(x, y, p[0], p[1]); d < best {
			best = d
		}
		if i+1 < limit {
			q := t.pts[i+1]
			if d := pointSegDistSq(x, y, p[0], p[1], q[0], q[1]); d < best {
				best = d
			}
		}
	}
	return best
}

func distSq(ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	return dx*dx + dy*dy
}

// pointSegDistSq returns the squared distance from point (px, py) to the
// segment (ax, ay)-(bx, by).
func pointSegDistSq(px, py, ax, ay, bx, by float64) float64 {
	abx := bx - ax
	aby := by - ay
	lenSq := abx*abx + aby*aby
	if lenSq < 1e-12 {
		return distSq(px, py, ax, ay)
	}
	u := ((px-ax)*abx + (py-ay)*aby) / lenSq
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	return distSq(px, py, ax+u*abx, ay+u*aby)
}

// normalizeAngle wraps an angle to (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// HeadingTo returns the heading from (x, y) toward (tx, ty).
func HeadingTo(x, y, tx, ty float64) float64 {
	return math.Atan2(ty-y, tx-x)
}
