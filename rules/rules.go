package rules

import "github.com/sheikhrachel/go-cellau3d/model"

// Rules decide birth and survival from the number of alive neighbors.
// Bit n of a mask selects neighbor count n (0..26).
type Rules struct {
	Survival     uint32
	Birth        uint32
	States       int
	Neighborhood *model.Neighborhood
}

// New parses the textual survival and birth triggers into Rules
func New(survives, births string, states int, n *model.Neighborhood) *Rules {
	return &Rules{
		Survival:     ParseFlags(survives),
		Birth:        ParseFlags(births),
		States:       states,
		Neighborhood: n,
	}
}

/*
Conway returns the rules of Conway's Game of Life on the x/z plane: an alive cell
with 2 or 3 neighbors survives, a dead cell with exactly 3 neighbors is born.
*/
func Conway() *Rules {
	return New("2,3", "3", 2, model.Moore2D.Neighborhood())
}

// Survives reports whether neighbors satisfies the survival mask
func (r *Rules) Survives(neighbors int) bool {
	return r.Survival&(1<<uint(neighbors)) != 0
}

// Births reports whether neighbors satisfies the birth mask
func (r *Rules) Births(neighbors int) bool {
	return r.Birth&(1<<uint(neighbors)) != 0
}

// MaxAge is the age of a newborn cell
func (r *Rules) MaxAge() int { return r.States - 1 }

// Next applies the transition to one cell: alive reports the cell's flag,
// age its current age and count its alive neighbors. It returns the cell's
// next flag and age.
func (r *Rules) Next(alive bool, age, count int) (bool, int) {
	if !alive {
		if r.Births(count) {
			return true, r.MaxAge()
		}
		return false, 0
	}
	if age != r.MaxAge() || !r.Survives(count) {
		age--
	}
	if age > 0 {
		return true, age
	}
	return false, 0
}
