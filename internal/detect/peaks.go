// Package detect находит R-пики и реперные точки P, Q, S, T в скользящем
// окне отведения II с коррекцией базовой линии.
package detect

import (
	"math"
	"sort"
)

// localMaxima возвращает индексы локальных максимумов на полуинтервале
// [lo, hi) окна x. Плато считается одним максимумом по левому краю.
func localMaxima(x []float64, lo, hi int) []int {
	if lo < 1 {
		lo = 1
	}
	if hi > len(x)-1 {
		hi = len(x) - 1
	}

	var peaks []int
	for i := lo; i < hi; i++ {
		if x[i] > x[i-1] && x[i] >= x[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// prominence высота пика над самой низкой точкой, отделяющей его от
// ближайшего более высокого соседа (с каждой стороны до первой точки
// выше пика или края окна; берётся большее из двух оснований).
func prominence(x []float64, peak int) float64 {
	leftMin := x[peak]
	for i := peak - 1; i >= 0; i-- {
		if x[i] > x[peak] {
			break
		}
		if x[i] < leftMin {
			leftMin = x[i]
		}
	}

	rightMin := x[peak]
	for i := peak + 1; i < len(x); i++ {
		if x[i] > x[peak] {
			break
		}
		if x[i] < rightMin {
			rightMin = x[i]
		}
	}

	return x[peak] - math.Max(leftMin, rightMin)
}

// prominentMaxima локальные максимумы на [lo, hi) с prominence не ниже порога
func prominentMaxima(x []float64, lo, hi int, minProminence float64) []int {
	var out []int
	for _, p := range localMaxima(x, lo, hi) {
		if prominence(x, p) >= minProminence {
			out = append(out, p)
		}
	}
	return out
}

// enforceDistance жадно отбирает пики с минимальным расстоянием между ними:
// при конфликте побеждает кандидат с большей амплитудой
func enforceDistance(x []float64, peaks []int, minDist int) []int {
	if minDist <= 1 || len(peaks) < 2 {
		sorted := append([]int(nil), peaks...)
		sort.Ints(sorted)
		return sorted
	}

	byAmplitude := append([]int(nil), peaks...)
	sort.Slice(byAmplitude, func(i, j int) bool {
		return x[byAmplitude[i]] > x[byAmplitude[j]]
	})

	var accepted []int
	for _, cand := range byAmplitude {
		ok := true
		for _, a := range accepted {
			if abs(cand-a) < minDist {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, cand)
		}
	}

	sort.Ints(accepted)
	return accepted
}

// argMin индекс минимума на полуинтервале [lo, hi)
func argMin(x []float64, lo, hi int) (int, bool) {
	if lo < 0 {
		lo = 0
	}
	if hi > len(x) {
		hi = len(x)
	}
	if lo >= hi {
		return 0, false
	}

	idx := lo
	for i := lo + 1; i < hi; i++ {
		if x[i] < x[idx] {
			idx = i
		}
	}
	return idx, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
