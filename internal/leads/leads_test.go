package leads

import (
	"math"
	"testing"

	"ECG_monitor/internal/models"
)

func TestParseFrame(t *testing.T) {
	frame, err := ParseFrame("100 210 220 150 230 240 250 260")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if frame.LeadI != 100 || frame.LeadII != 150 {
		t.Errorf("I=%v II=%v, ожидалось 100 и 150", frame.LeadI, frame.LeadII)
	}
	if frame.V1 != 250 || frame.V2 != 260 || frame.V3 != 230 {
		t.Errorf("грудные каналы разобраны неверно: %+v", frame)
	}
}

func TestParseFrameMalformed(t *testing.T) {
	cases := []string{
		"",
		"1 2 3",
		"1 2 3 4 5 6 7",
		"1 2 3 4 5 6 7 8 9",
		"1 2 3 4 5 6 7 abc",
		"1.5 2 3 4 5 6 7 8",
	}

	for _, line := range cases {
		if _, err := ParseFrame(line); err == nil {
			t.Errorf("строка %q должна отбрасываться", line)
		}
	}
}

func TestDeriveFormulas(t *testing.T) {
	frame := Frame{LeadI: 100, LeadII: 160}
	lv := Derive(frame)

	if got := lv[models.LeadIII]; got != 60 {
		t.Errorf("III = %v, ожидалось 60", got)
	}
	if got := lv[models.LeadAVR]; got != -130 {
		t.Errorf("aVR = %v, ожидалось -130", got)
	}
	if got := lv[models.LeadAVL]; got != 20 {
		t.Errorf("aVL = %v, ожидалось 20", got)
	}
	if got := lv[models.LeadAVF]; got != 110 {
		t.Errorf("aVF = %v, ожидалось 110", got)
	}
}

// Тождество Гольдбергера: aVR + aVL + aVF == 0 для любых входов
func TestGoldbergerIdentity(t *testing.T) {
	pairs := [][2]float64{
		{0, 0}, {1, 1}, {100, 150}, {-300, 250},
		{999, -999}, {123, 457}, {-1, 2}, {50000, -31337},
	}

	for _, p := range pairs {
		lv := Derive(Frame{LeadI: p[0], LeadII: p[1]})
		sum := lv[models.LeadAVR] + lv[models.LeadAVL] + lv[models.LeadAVF]
		if math.Abs(sum) > 1e-9 {
			t.Errorf("I=%v II=%v: aVR+aVL+aVF = %v, ожидался 0", p[0], p[1], sum)
		}
	}
}

func TestPassthroughChest(t *testing.T) {
	lv, err := ParseAndDerive("10 44 55 20 33 66 11 22")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	expect := map[models.Lead]float64{
		models.LeadV1: 11, models.LeadV2: 22, models.LeadV3: 33,
		models.LeadV4: 44, models.LeadV5: 55, models.LeadV6: 66,
	}
	for lead, want := range expect {
		if lv[lead] != want {
			t.Errorf("%s = %v, ожидалось %v", lead, lv[lead], want)
		}
	}
}
