package models

import (
	"encoding/json"
	"math"
)

// Measurement измеренное значение или явный маркер "не определено".
// Неопределённая метрика никогда не превращается в молчаливый ноль:
// в JSON она сериализуется как null.
type Measurement struct {
	Value   float64
	Defined bool
}

// Defined создает определённое измерение
func Defined(v float64) Measurement {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return Measurement{Value: v, Defined: true}
}

// Undefined создает маркер отсутствующего измерения
func Undefined() Measurement {
	return Measurement{}
}

// MarshalJSON сериализует неопределённое измерение как null
func (m Measurement) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON восстанавливает измерение из числа или null
func (m *Measurement) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Undefined()
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Defined(v)
	return nil
}

// AxisResult электрическая ось QRS в градусах или "недоступно"
type AxisResult struct {
	Degrees   float64 `json:"degrees"`
	Available bool    `json:"available"`
}

// AxisUnavailable маркер недоступной оси
func AxisUnavailable() AxisResult {
	return AxisResult{}
}

// STResult результат анализа сегмента ST: усреднённая амплитуда и класс.
// Если амплитуда не попала ни под одно правило классификации, Class пуст
// и потребитель показывает сырую амплитуду.
type STResult struct {
	Amplitude float64 `json:"amplitude"`
	Class     STClass `json:"class,omitempty"`
	Available bool    `json:"available"`
}

// STUnavailable маркер недоступного сегмента ST
func STUnavailable() STResult {
	return STResult{}
}
