package classify

import (
	"testing"

	"ECG_monitor/configs"
	"ECG_monitor/internal/models"
)

func testClassifier() *Classifier {
	return NewClassifier(configs.DefaultClassifierConfig())
}

// flatWindow окно с заданным размахом амплитуды
func flatWindow(n int, peakToPeak float64) []float64 {
	x := make([]float64, n)
	if n > 0 {
		x[n/2] = peakToPeak
	}
	return x
}

// sinusInput регулярный синусовый ритм с заданной частотой
func sinusInput(hr float64, qrsMillis float64) Input {
	rr := 60 / hr
	return Input{
		Window:       flatWindow(2000, 300),
		RPeakCount:   4,
		PPeakCount:   4,
		RR:           []float64{rr, rr, rr},
		HeartRate:    models.Defined(hr),
		QRS:          models.Defined(qrsMillis),
		PR:           models.Defined(160),
		PRMillis:     []float64{160, 160, 160, 160},
		WaveGain:     10,
		SamplingRate: 500,
	}
}

func TestAsystoleVersusNoQRS(t *testing.T) {
	c := testClassifier()

	// Плоский сигнал без R-пиков: асистолия
	res := c.Classify(Input{
		Window:       flatWindow(2000, 20),
		WaveGain:     10,
		SamplingRate: 500,
	})
	if res.Outcome != OutcomeClassified || res.Label != models.LabelAsystole {
		t.Errorf("плоский сигнал: %+v, ожидалась асистолия", res)
	}

	// Амплитуда есть, комплексов нет
	res = c.Classify(Input{
		Window:       flatWindow(2000, 200),
		WaveGain:     10,
		SamplingRate: 500,
	})
	if res.Outcome != OutcomeClassified || res.Label != models.LabelNoQRS {
		t.Errorf("сигнал без QRS: %+v, ожидалось No QRS Detected", res)
	}
}

// Усиление развёртки масштабирует амплитуду до сравнения с порогом
func TestAsystoleGainScaling(t *testing.T) {
	c := testClassifier()

	in := Input{
		Window:       flatWindow(2000, 80),
		WaveGain:     10,
		SamplingRate: 500,
	}
	if res := c.Classify(in); res.Label != models.LabelNoQRS {
		t.Errorf("размах 80 при полном усилении: %+v", res)
	}

	in.WaveGain = 5
	if res := c.Classify(in); res.Label != models.LabelAsystole {
		t.Errorf("размах 40 при половинном усилении: %+v", res)
	}
}

// Пустое окно (старт сервиса, буферы еще не заполнены) — нехватка
// данных, а не "No QRS Detected"
func TestEmptyWindowIsDetecting(t *testing.T) {
	c := testClassifier()

	for _, window := range [][]float64{nil, {}} {
		res := c.Classify(Input{
			Window:       window,
			WaveGain:     10,
			SamplingRate: 500,
		})
		if res.Outcome != OutcomeInsufficientData || res.Label != models.LabelDetecting {
			t.Errorf("пустое окно: %+v, ожидалось Detecting", res)
		}
	}
}

func TestInsufficientData(t *testing.T) {
	c := testClassifier()

	res := c.Classify(Input{
		Window:       flatWindow(2000, 300),
		RPeakCount:   1,
		WaveGain:     10,
		SamplingRate: 500,
	})
	if res.Outcome != OutcomeInsufficientData {
		t.Errorf("один пик: исход %v, ожидалась нехватка данных", res.Outcome)
	}
	if res.Label != models.LabelDetecting {
		t.Errorf("метка %q, ожидалась %q", res.Label, models.LabelDetecting)
	}
}

func TestVentricularFibrillation(t *testing.T) {
	c := testClassifier()

	res := c.Classify(Input{
		Window:       flatWindow(2000, 400),
		RPeakCount:   6,
		RR:           []float64{0.1, 0.6, 0.1, 0.6, 0.1},
		HeartRate:    models.Defined(200),
		WaveGain:     10,
		SamplingRate: 500,
	})
	if res.Label != models.LabelVFib {
		t.Errorf("хаотичный быстрый ритм: %+v, ожидалась фибрилляция", res)
	}
}

// Широкий QRS при тахикардии — желудочковая тахикардия, а не синусовая:
// приоритет правил
func TestVTPrecedesSinusTachycardia(t *testing.T) {
	c := testClassifier()

	in := sinusInput(130, 140)
	res := c.Classify(in)
	if res.Label != models.LabelVTach {
		t.Errorf("тахикардия с широким QRS: %q, ожидалась VT", res.Label)
	}

	in.QRS = models.Defined(90)
	res = c.Classify(in)
	if res.Label != models.LabelTachycardia {
		t.Errorf("тахикардия с узким QRS: %q, ожидалась синусовая", res.Label)
	}
}

func TestBradycardia(t *testing.T) {
	c := testClassifier()

	if res := c.Classify(sinusInput(45, 90)); res.Label != models.LabelBradycardia {
		t.Errorf("ритм 45 уд/мин: %q", res.Label)
	}
}

func TestNormalSinusRhythm(t *testing.T) {
	c := testClassifier()

	res := c.Classify(sinusInput(75, 90))
	if res.Outcome != OutcomeClassified || res.Label != models.LabelNoneDetected {
		t.Errorf("нормальный ритм: %+v", res)
	}
}

func TestAtrialFibrillation(t *testing.T) {
	c := testClassifier()

	res := c.Classify(Input{
		Window:       flatWindow(2000, 300),
		RPeakCount:   5,
		PPeakCount:   1,
		RR:           []float64{0.6, 1.0, 0.7, 1.1},
		HeartRate:    models.Defined(70),
		QRS:          models.Defined(90),
		WaveGain:     10,
		SamplingRate: 500,
	})
	if res.Label != models.LabelAFib {
		t.Errorf("нерегулярный ритм с редкими P: %q", res.Label)
	}
}

// Трепетание различимо, когда QRS не измерен и правила тахикардий молчат
func TestAtrialFlutter(t *testing.T) {
	c := testClassifier()

	res := c.Classify(Input{
		Window:       flatWindow(2000, 300),
		RPeakCount:   5,
		PPeakCount:   9,
		RR:           []float64{0.4, 0.4, 0.4, 0.4},
		HeartRate:    models.Defined(150),
		WaveGain:     10,
		SamplingRate: 500,
	})
	if res.Label != models.LabelAFlutter {
		t.Errorf("P-волн больше QRS при 150 уд/мин: %q", res.Label)
	}
}

func TestPrematureAtrialContraction(t *testing.T) {
	c := testClassifier()

	in := sinusInput(75, 90)
	in.PRMillis = []float64{160, 160, 90, 160}
	res := c.Classify(in)
	if res.Label != models.LabelPAC {
		t.Errorf("ранняя P-волна: %q", res.Label)
	}
}

func TestPrematureVentricularContraction(t *testing.T) {
	c := testClassifier()

	in := sinusInput(80, 140)
	in.PPeakCount = 1
	in.PRMillis = nil
	res := c.Classify(in)
	if res.Label != models.LabelPVC {
		t.Errorf("широкий QRS при редких P: %q", res.Label)
	}
}

func TestFirstDegreeAVBlock(t *testing.T) {
	c := testClassifier()

	in := sinusInput(70, 90)
	in.PR = models.Defined(240)
	in.PRMillis = []float64{240, 240, 240, 240}
	res := c.Classify(in)
	if res.Label != models.LabelFirstDegreeAV {
		t.Errorf("PR 240 мс: %q", res.Label)
	}
}

func TestDroppedQRS(t *testing.T) {
	c := testClassifier()

	// Частота по RR высокая, но пиков на окно в 8 секунд подозрительно мало
	res := c.Classify(Input{
		Window:       flatWindow(4000, 300),
		RPeakCount:   3,
		PPeakCount:   3,
		RR:           []float64{0.75, 0.75},
		HeartRate:    models.Defined(80),
		QRS:          models.Defined(90),
		PR:           models.Defined(160),
		WaveGain:     10,
		SamplingRate: 500,
	})
	if res.Label != models.LabelDroppedQRS {
		t.Errorf("выпадение комплексов: %q", res.Label)
	}
}

// Одинаковые входы всегда дают одинаковый результат
func TestDeterminism(t *testing.T) {
	c := testClassifier()

	inputs := []Input{
		sinusInput(75, 90),
		sinusInput(130, 140),
		{Window: flatWindow(2000, 20), WaveGain: 10, SamplingRate: 500},
	}
	for i, in := range inputs {
		first := c.Classify(in)
		for j := 0; j < 5; j++ {
			if got := c.Classify(in); got != first {
				t.Errorf("вход %d: результат %+v отличается от %+v", i, got, first)
			}
		}
	}
}
