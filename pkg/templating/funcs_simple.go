package templating

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// add returns a + b.
func add(a, b int) int {
	return a + b
}

// sub returns a - b.
func sub(a, b int) int {
	return a - b
}

// repeat returns a slice of integers from 0 to count-1.
func repeat(count int) []int {
	if count < 0 {
		return []int{}
	}
	s := make([]int, count)
	for i := range s {
		s[i] = i
	}
	return s
}

// title upper-cases the first letter of each word.
func title(s string) string {
	return cases.Title(language.English).String(s)
}
