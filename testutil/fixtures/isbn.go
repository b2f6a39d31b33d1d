package fixtures

import (
	"fmt"
)

// ISBN returns the i-th ISBN-13 of the 979 range with a correct check digit.
func ISBN(i int) string {
	body := fmt.Sprintf("979%09d", i)

	sum := 0
	for pos, c := range body {
		weight := 1
		if pos%2 == 1 {
			weight = 3
		}

		sum += int(c-'0') * weight
	}

	return fmt.Sprintf("%s%d", body, (10-sum%10)%10)
}
