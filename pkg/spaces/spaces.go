package spaces

import (
	"fmt"
	"math/rand"
	"strings"
)

// Discrete is the set of integers {0, 1, ..., N-1}
type Discrete struct {
	N int
}

// NewDiscrete creates a discrete space with n elements. It panics if n < 1.
func NewDiscrete(n int) Discrete {
	if n < 1 {
		panic(fmt.Sprintf("spaces: discrete space needs at least one element, got %d", n))
	}
	return Discrete{N: n}
}

// Contains reports whether x is a member of the space
func (d Discrete) Contains(x int) bool {
	return x >= 0 && x < d.N
}

// Sample draws a uniformly random member of the space. It panics on an
// empty space, which only a zero-value Discrete can be.
func (d Discrete) Sample(rng *rand.Rand) int {
	if d.N <= 0 {
		panic("spaces: sample from empty discrete space")
	}
	if rng == nil {
		return rand.Intn(d.N)
	}
	return rng.Intn(d.N)
}

func (d Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}

// Tuple is the cartesian product of discrete spaces
type Tuple struct {
	Spaces []Discrete
}

func NewTuple(spaces ...Discrete) Tuple {
	return Tuple{Spaces: append([]Discrete(nil), spaces...)}
}

// Contains reports whether every element of x lies in its component space
func (t Tuple) Contains(x []int) bool {
	if len(x) != len(t.Spaces) {
		return false
	}
	for i, s := range t.Spaces {
		if !s.Contains(x[i]) {
			return false
		}
	}
	return true
}

// Sample draws one element from each component space
func (t Tuple) Sample(rng *rand.Rand) []int {
	out := make([]int, len(t.Spaces))
	for i, s := range t.Spaces {
		out[i] = s.Sample(rng)
	}
	return out
}

func (t Tuple) String() string {
	parts := make([]string, 0, len(t.Spaces))
	for _, s := range t.Spaces {
		parts = append(parts, s.String())
	}
	return "Tuple(" + strings.Join(parts, ", ") + ")"
}
