// Package leads выводит 12 стандартных отведений ЭКГ из 8 сырых каналов
// аппаратного кадра по фиксированным линейным формулам Гольдбергера.
package leads

import (
	"errors"
	"strconv"
	"strings"

	"ECG_monitor/internal/models"
)

// FrameChannels количество целочисленных каналов в одном кадре
const FrameChannels = 8

// ErrMalformedFrame кадр не содержит ровно 8 разбираемых целых чисел.
// Такой кадр отбрасывается без побочных эффектов.
var ErrMalformedFrame = errors.New("кадр не содержит 8 целочисленных каналов")

// Frame один сырой кадр устройства. Фиксированный порядок каналов:
// (I, V4, V5, II, V3, V6, V1, V2).
type Frame struct {
	LeadI, V4, V5, LeadII, V3, V6, V1, V2 float64
}

// ParseFrame разбирает строку кадра: 8 целых чисел через пробелы
func ParseFrame(line string) (Frame, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) != FrameChannels {
		return Frame{}, ErrMalformedFrame
	}

	values := make([]float64, FrameChannels)
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return Frame{}, ErrMalformedFrame
		}
		values[i] = float64(v)
	}

	return Frame{
		LeadI:  values[0],
		V4:     values[1],
		V5:     values[2],
		LeadII: values[3],
		V3:     values[4],
		V6:     values[5],
		V1:     values[6],
		V2:     values[7],
	}, nil
}

// Derive вычисляет все 12 отведений из кадра. Чистая детерминированная
// функция: грудные отведения проходят без изменений, усиленные выводятся
// из I и II. Для любых входов aVR + aVL + aVF == 0.
func Derive(f Frame) models.LeadValues {
	leadIII := f.LeadII - f.LeadI
	avr := -(f.LeadI + f.LeadII) / 2
	avl := (f.LeadI - leadIII) / 2
	avf := (f.LeadII + leadIII) / 2

	return models.LeadValues{
		models.LeadI:   f.LeadI,
		models.LeadII:  f.LeadII,
		models.LeadIII: leadIII,
		models.LeadAVR: avr,
		models.LeadAVL: avl,
		models.LeadAVF: avf,
		models.LeadV1:  f.V1,
		models.LeadV2:  f.V2,
		models.LeadV3:  f.V3,
		models.LeadV4:  f.V4,
		models.LeadV5:  f.V5,
		models.LeadV6:  f.V6,
	}
}

// ParseAndDerive разбирает строку кадра и сразу выводит отведения
func ParseAndDerive(line string) (models.LeadValues, error) {
	frame, err := ParseFrame(line)
	if err != nil {
		return nil, err
	}
	return Derive(frame), nil
}
