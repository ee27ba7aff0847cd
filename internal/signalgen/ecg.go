// Package signalgen генерирует синтетический ЭКГ-сигнал для эмулятора
// и тестов. Форма не клиническая: базовая линия, гауссовы волны P, QRS,
// T и немного детерминированного шума.
package signalgen

import (
	"math"
	"strconv"
	"strings"
)

// ChannelCount количество каналов в кадре аппарата
const ChannelCount = 8

// Коэффициенты каналов в порядке следования в кадре:
// I, V4, V5, II, V3, V6, V1, V2
var channelScale = [ChannelCount]float64{0.55, 0.95, 0.85, 1.0, 0.9, 0.7, -0.4, 0.25}

// Generator детерминированный генератор кадров ЭКГ
type Generator struct {
	fs        float64
	phase     float64
	hrBPM     float64
	noise     float64
	amplitude float64 // амплитуда R-зубца в сырых единицах АЦП
}

// NewGenerator fs в Гц, типичная частота 60-120 уд/мин, noise 0.0-0.05
func NewGenerator(fs, hrBPM, noise float64) *Generator {
	return &Generator{fs: fs, hrBPM: hrBPM, noise: noise, amplitude: 600}
}

// SetHeartRate меняет частоту ритма на лету
func (g *Generator) SetHeartRate(hrBPM float64) {
	if hrBPM > 0 {
		g.hrBPM = hrBPM
	}
}

// next продвигает фазу цикла и возвращает форму волны на отведении II
func (g *Generator) next() float64 {
	cycleHz := g.hrBPM / 60.0
	g.phase += cycleHz / g.fs
	if g.phase >= 1.0 {
		g.phase -= 1.0
	}

	t := g.phase

	baseline := 0.05 * math.Sin(2*math.Pi*0.33*t)

	p := 0.08 * gauss(t, 0.18, 0.03)
	q := -0.12 * gauss(t, 0.30, 0.01)
	r := 1.00 * gauss(t, 0.32, 0.008)
	s := -0.25 * gauss(t, 0.35, 0.012)
	tw := 0.25 * gauss(t, 0.60, 0.06)

	n := g.noise * (2*fract(math.Sin(12345.678*t)*9876.543) - 1)

	return baseline + p + q + r + s + tw + n
}

// NextValues возвращает сырые значения восьми каналов очередного сэмпла
func (g *Generator) NextValues() [ChannelCount]float64 {
	w := g.next() * g.amplitude

	var values [ChannelCount]float64
	for i, scale := range channelScale {
		values[i] = w * scale
	}
	return values
}

// NextFrame возвращает очередной кадр в проводном формате:
// восемь целых чисел через пробел
func (g *Generator) NextFrame() string {
	values := g.NextValues()

	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(int(math.Round(v))))
	}
	return b.String()
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func fract(x float64) float64 { return x - math.Floor(x) }
