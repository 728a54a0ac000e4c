package util

import (
	"fmt"
)

func ExampleArangeInt32_endOnly() {
	fmt.Println(ArangeInt32(10))
	// Output: [0 1 2 3 4 5 6 7 8 9]
}

func ExampleArangeInt32_startEnd() {
	fmt.Println(ArangeInt32(5, 15))
	// Output: [5 6 7 8 9 10 11 12 13 14]
}

func ExampleArangeInt32_startEndStep() {
	fmt.Println(ArangeInt32(10, 22, 2))
	// Output: [10 12 14 16 18 20]
}
