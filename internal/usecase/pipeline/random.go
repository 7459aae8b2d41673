package pipeline

import "math/rand"

// jitterTemperature deplasează temperatura de bază cu o valoare uniformă în
// [-spread, +spread], păstrând rezultatul în [0, 1].
func jitterTemperature(rnd *rand.Rand, base, spread float64) float64 {
	t := base + (rnd.Float64()*2-1)*spread
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// pick alege un element uniform dintr-o listă nevidă.
func pick(rnd *rand.Rand, values []string) string {
	return values[rnd.Intn(len(values))]
}
