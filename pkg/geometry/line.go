package geometry

// LinePoints returns the 8-connected pixel path from a to b, both
// endpoints included.
func LinePoints(a, b PointInt) []PointInt {
	dx := b.X - a.X
	dy := b.Y - a.Y
	sx, sy := 1, 1
	if dx < 0 {
		dx = -dx
		sx = -1
	}
	if dy < 0 {
		dy = -dy
		sy = -1
	}

	n := dx
	if dy > n {
		n = dy
	}
	points := make([]PointInt, 0, n+1)

	x, y := a.X, a.Y
	err := dx - dy
	for {
		points = append(points, PointInt{X: x, Y: y})
		if x == b.X && y == b.Y {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
	return points
}
