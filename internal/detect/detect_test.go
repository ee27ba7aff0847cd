package detect

import (
	"math"
	"testing"

	"ECG_monitor/configs"
)

func testDetector(fs float64) *Detector {
	return NewDetector(fs, configs.DefaultDetectorConfig())
}

// spikeTrain сигнал из одиночных выбросов на нулевой базовой линии
func spikeTrain(n int, period int, amplitude float64) []float64 {
	x := make([]float64, n)
	for i := period; i < n; i += period {
		x[i] = amplitude
	}
	return x
}

// gaussian добавляет гауссов бугор в сигнал
func gaussian(x []float64, center int, amplitude, sigma float64) {
	for i := range x {
		z := (float64(i) - float64(center)) / sigma
		x[i] += amplitude * math.Exp(-0.5*z*z)
	}
}

func TestFindRPeaksSpikeTrain(t *testing.T) {
	const fs = 500.0
	d := testDetector(fs)

	// Выброс каждую секунду: ритм 60 уд/мин
	x := spikeTrain(2600, 500, 300)
	peaks := d.FindRPeaks(x)

	if len(peaks) != 5 {
		t.Fatalf("найдено %d пиков, ожидалось 5: %v", len(peaks), peaks)
	}
	for i, p := range peaks {
		want := 500 * (i + 1)
		if p != want {
			t.Errorf("пик %d на индексе %d, ожидался %d", i, p, want)
		}
	}
}

func TestFindRPeaksRefractory(t *testing.T) {
	const fs = 500.0
	d := testDetector(fs)

	// Два пика в 50 сэмплах друг от друга: рефрактерное расстояние
	// round(0.2 * 500) = 100, побеждает больший по амплитуде
	x := make([]float64, 1000)
	x[400] = 80
	x[450] = 100
	x[800] = 90

	peaks := d.FindRPeaks(x)
	if len(peaks) != 2 {
		t.Fatalf("найдено %d пиков, ожидалось 2: %v", len(peaks), peaks)
	}
	if peaks[0] != 450 || peaks[1] != 800 {
		t.Errorf("пики %v, ожидались [450 800]", peaks)
	}
}

func TestFindRPeaksProminenceFilter(t *testing.T) {
	const fs = 500.0
	d := testDetector(fs)

	x := spikeTrain(2000, 500, 200)
	// Мелкая рябь не должна проходить порог prominence
	for i := 100; i < 2000; i += 40 {
		x[i] += 0.5
	}

	peaks := d.FindRPeaks(x)
	if len(peaks) != 3 {
		t.Fatalf("найдено %d пиков, ожидалось 3: %v", len(peaks), peaks)
	}
}

func TestFindRPeaksDegenerate(t *testing.T) {
	d := testDetector(500)

	if peaks := d.FindRPeaks(nil); peaks != nil {
		t.Errorf("пустое окно: %v", peaks)
	}
	if peaks := d.FindRPeaks([]float64{5, 5}); peaks != nil {
		t.Errorf("короткое окно: %v", peaks)
	}

	flat := make([]float64, 500)
	for i := range flat {
		flat[i] = 512
	}
	if peaks := d.FindRPeaks(flat); len(peaks) != 0 {
		t.Errorf("плоский сигнал: %v", peaks)
	}
}

func TestLocateBeatsOrdering(t *testing.T) {
	const fs = 500.0
	d := testDetector(fs)

	// Синтетический цикл: P(230) Q(290) R(300) S(310) T(440)
	x := make([]float64, 800)
	gaussian(x, 230, 40, 8)   // P
	gaussian(x, 290, -40, 3)  // Q
	gaussian(x, 300, 300, 5)  // R
	gaussian(x, 310, -60, 4)  // S
	gaussian(x, 440, 80, 20)  // T

	beats := d.LocateBeats(x, []int{300})
	if len(beats) != 1 {
		t.Fatalf("получено %d циклов, ожидался 1", len(beats))
	}

	b := beats[0]
	if b.P == nil || b.Q == nil || b.R == nil || b.S == nil || b.T == nil {
		t.Fatalf("не все точки найдены: %+v", b)
	}

	if !(b.P.Index < b.Q.Index && b.Q.Index < b.R.Index &&
		b.R.Index < b.S.Index && b.S.Index < b.T.Index) {
		t.Errorf("нарушен порядок P<Q<R<S<T: P=%d Q=%d R=%d S=%d T=%d",
			b.P.Index, b.Q.Index, b.R.Index, b.S.Index, b.T.Index)
	}

	tol := 5
	checks := []struct {
		name string
		got  int
		want int
	}{
		{"P", b.P.Index, 230},
		{"Q", b.Q.Index, 290},
		{"R", b.R.Index, 300},
		{"S", b.S.Index, 310},
		{"T", b.T.Index, 440},
	}
	for _, c := range checks {
		if abs(c.got-c.want) > tol {
			t.Errorf("%s на %d, ожидалось около %d", c.name, c.got, c.want)
		}
	}
}

// Отсутствие кандидатов — валидный исход, а не ошибка
func TestLocateBeatsMissingWaves(t *testing.T) {
	const fs = 500.0
	d := testDetector(fs)

	// Только QRS, без P и T
	x := make([]float64, 800)
	gaussian(x, 400, -40, 3)
	gaussian(x, 410, 300, 5)
	gaussian(x, 420, -60, 4)

	beats := d.LocateBeats(x, []int{410})
	if len(beats) != 1 {
		t.Fatalf("получено %d циклов, ожидался 1", len(beats))
	}

	b := beats[0]
	if b.Q == nil || b.S == nil {
		t.Fatal("Q и S должны находиться всегда при достаточном окне")
	}
	if b.P != nil {
		t.Errorf("P не должен находиться на плоском участке: %+v", b.P)
	}
	if b.T != nil {
		t.Errorf("T не должен находиться на плоском участке: %+v", b.T)
	}
}

func TestLocateBeatsEmpty(t *testing.T) {
	d := testDetector(500)

	if beats := d.LocateBeats(nil, []int{1}); beats != nil {
		t.Errorf("пустое окно: %v", beats)
	}
	if beats := d.LocateBeats([]float64{1, 2, 3}, nil); beats != nil {
		t.Errorf("без R-пиков: %v", beats)
	}
}
