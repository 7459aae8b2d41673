package pipeline

import (
	"math/rand"
	"testing"
)

func TestJitterTemperatureStaysInSpread(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		got := jitterTemperature(rnd, 0.8, 0.1)
		if got < 0.7-1e-9 || got > 0.9+1e-9 {
			t.Fatalf("temperatura %v a ieșit din [0.7, 0.9]", got)
		}
	}
}

func TestJitterTemperatureClamps(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		if got := jitterTemperature(rnd, 0.98, 0.1); got > 1 {
			t.Fatalf("temperatura %v depășește 1", got)
		}
		if got := jitterTemperature(rnd, 0.02, 0.1); got < 0 {
			t.Fatalf("temperatura %v este sub 0", got)
		}
	}
}

func TestPickCoversAllValues(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	values := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[pick(rnd, values)] = true
	}
	for _, v := range values {
		if !seen[v] {
			t.Fatalf("valoarea %q nu a fost aleasă niciodată", v)
		}
	}
}
