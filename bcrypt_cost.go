//go:build !race

package authfile

func passwordHashCost() int {
	return 14
}
