package world_test

import (
	"fmt"

	"github.com/katalvlaran/siting/grid"
	"github.com/katalvlaran/siting/world"
)

// ExampleWorld_MoveDispenser places two dispensers by hand, moves one next
// to the far city and prints the board before and after.
func ExampleWorld_MoveDispenser() {
	cities := []grid.Coordinate{{Row: 0, Col: 0}, {Row: 2, Col: 4}}
	w, err := world.NewFromSolution(5, 3, cities, world.Solution{{Row: 0, Col: 1}, {Row: 1, Col: 1}})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(w.GridString())
	fmt.Println("fitness:", w.Fitness())

	fmt.Println("onto city:", w.MoveDispenser(1, grid.Coordinate{Row: 0, Col: 0}))
	fmt.Println("next to city:", w.MoveDispenser(1, grid.Coordinate{Row: 2, Col: 3}))
	fmt.Print(w.GridString())
	fmt.Println("fitness:", w.Fitness())

	// Output:
	// Pd...
	// .d...
	// ....P
	// fitness: 5
	// onto city: false
	// next to city: true
	// Pd...
	// .....
	// ...dP
	// fitness: 2
}
