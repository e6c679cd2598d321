package model

// Separable window sums over alive flags. Cells outside the volume count as dead.
// Point queries compose row sums; full rows slide a column sum along x (see
// Neighborhood.CountRow) so each cell costs one new column.

func flag(g Grid, x, y, z int) int {
	if g.GetOr(x, y, z, false) {
		return 1
	}
	return 0
}

// Sum3X sums the row x-1..x+1 at (y, z)
func Sum3X(g Grid, x, y, z int) int {
	return flag(g, x-1, y, z) + flag(g, x, y, z) + flag(g, x+1, y, z)
}

// Sum9XY sums the 3x3 window in the x/y plane at z
func Sum9XY(g Grid, x, y, z int) int {
	return Sum3X(g, x, y-1, z) + Sum3X(g, x, y, z) + Sum3X(g, x, y+1, z)
}

// Sum9XZ sums the 3x3 window in the x/z plane at y
func Sum9XZ(g Grid, x, y, z int) int {
	return Sum3X(g, x, y, z-1) + Sum3X(g, x, y, z) + Sum3X(g, x, y, z+1)
}

// Sum27 sums the 3x3x3 cube centered on (x, y, z)
func Sum27(g Grid, x, y, z int) int {
	return Sum9XY(g, x, y, z-1) + Sum9XY(g, x, y, z) + Sum9XY(g, x, y, z+1)
}

// Sum3Z sums the column z-1..z+1 at (x, y)
func Sum3Z(g Grid, x, y, z int) int {
	return flag(g, x, y, z-1) + flag(g, x, y, z) + flag(g, x, y, z+1)
}

// Sum9YZ sums the 3x3 window in the y/z plane at x
func Sum9YZ(g Grid, x, y, z int) int {
	return Sum3Z(g, x, y-1, z) + Sum3Z(g, x, y, z) + Sum3Z(g, x, y+1, z)
}
