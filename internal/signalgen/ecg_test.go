package signalgen

import (
	"testing"

	"ECG_monitor/internal/leads"
	"ECG_monitor/internal/models"
)

func TestNextFrameWireFormat(t *testing.T) {
	g := NewGenerator(500, 60, 0.02)

	for i := 0; i < 100; i++ {
		line := g.NextFrame()
		frame, err := leads.ParseFrame(line)
		if err != nil {
			t.Fatalf("кадр %d не разбирается: %v (%q)", i, err, line)
		}
		derived := leads.Derive(frame)
		if len(derived) != len(models.StandardLeads) {
			t.Fatalf("кадр %d: выведено %d отведений", i, len(derived))
		}
	}
}

// Генератор детерминирован: одинаковые параметры дают одинаковый поток
func TestGeneratorDeterminism(t *testing.T) {
	a := NewGenerator(500, 75, 0.03)
	b := NewGenerator(500, 75, 0.03)

	for i := 0; i < 1000; i++ {
		if fa, fb := a.NextFrame(), b.NextFrame(); fa != fb {
			t.Fatalf("кадр %d: %q != %q", i, fa, fb)
		}
	}
}

// Период между R-зубцами отведения II соответствует заданному ритму
func TestGeneratorCyclePeriod(t *testing.T) {
	const fs = 500.0
	g := NewGenerator(fs, 60, 0)

	n := int(fs) * 4
	leadII := make([]float64, n)
	for i := 0; i < n; i++ {
		leadII[i] = g.NextValues()[3]
	}

	// Максимумы выше половины амплитуды R-зубца
	var peaks []int
	for i := 1; i < n-1; i++ {
		if leadII[i] > 300 && leadII[i] > leadII[i-1] && leadII[i] >= leadII[i+1] {
			peaks = append(peaks, i)
		}
	}

	if len(peaks) < 3 {
		t.Fatalf("найдено %d R-зубцов, ожидалось не меньше 3", len(peaks))
	}
	for i := 1; i < len(peaks); i++ {
		period := peaks[i] - peaks[i-1]
		if period < 480 || period > 520 {
			t.Errorf("период %d сэмплов между зубцами %d и %d, ожидалось около 500",
				period, i-1, i)
		}
	}
}
