package main

import (
	"fmt"

	"github.com/ratedesk/decisiontree/pkg/tree"
)

// parseFlavor maps a --flavor flag value to a tree.Flavor.
func parseFlavor(s string) (tree.Flavor, error) {
	switch s {
	case "", "single":
		return tree.Single, nil
	case "dated":
		return tree.Dated, nil
	case "sliced":
		return tree.Sliced, nil
	default:
		return 0, fmt.Errorf("unknown flavor %q (want single, dated, or sliced)", s)
	}
}
