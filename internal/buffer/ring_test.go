package buffer

import (
	"testing"

	"ECG_monitor/internal/models"
)

func TestAppendWithinCapacity(t *testing.T) {
	b := NewLeadBuffer(models.LeadII, 5)
	for i := 0; i < 3; i++ {
		b.Append(float64(i))
	}

	if b.Len() != 3 {
		t.Fatalf("Len = %d, ожидалось 3", b.Len())
	}

	snap := b.Snapshot()
	for i, v := range snap {
		if v != float64(i) {
			t.Errorf("snap[%d] = %v, ожидалось %d", i, v, i)
		}
	}
}

// После более чем capacity записей буфер держит ровно последние capacity
// сэмплов в порядке поступления
func TestOverflowKeepsMostRecent(t *testing.T) {
	const capacity = 10
	b := NewLeadBuffer(models.LeadII, capacity)

	for i := 0; i < 37; i++ {
		b.Append(float64(i))
		if b.Len() > capacity {
			t.Fatalf("размер %d превысил ёмкость %d", b.Len(), capacity)
		}
	}

	snap := b.Snapshot()
	if len(snap) != capacity {
		t.Fatalf("len(snap) = %d, ожидалось %d", len(snap), capacity)
	}
	for i, v := range snap {
		want := float64(37 - capacity + i)
		if v != want {
			t.Errorf("snap[%d] = %v, ожидалось %v", i, v, want)
		}
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	b := NewLeadBuffer(models.LeadV1, 4)
	b.Append(1)
	b.Append(2)

	snap := b.Snapshot()
	b.Append(3)
	b.Append(4)
	b.Append(5) // вытесняет 1

	if len(snap) != 2 || snap[0] != 1 || snap[1] != 2 {
		t.Errorf("снимок изменился после мутаций буфера: %v", snap)
	}
}

func TestResizePreservesRecent(t *testing.T) {
	b := NewLeadBuffer(models.LeadII, 10)
	for i := 0; i < 10; i++ {
		b.Append(float64(i))
	}

	// Сужение: остаются самые свежие 4
	b.Resize(4)
	if b.Cap() != 4 || b.Len() != 4 {
		t.Fatalf("Cap=%d Len=%d после сужения", b.Cap(), b.Len())
	}
	snap := b.Snapshot()
	for i, v := range snap {
		if v != float64(6+i) {
			t.Errorf("после сужения snap[%d] = %v, ожидалось %d", i, v, 6+i)
		}
	}

	// Расширение: данные сохраняются, место появляется
	b.Resize(8)
	if b.Cap() != 8 || b.Len() != 4 {
		t.Fatalf("Cap=%d Len=%d после расширения", b.Cap(), b.Len())
	}
	b.Append(100)
	snap = b.Snapshot()
	if snap[len(snap)-1] != 100 {
		t.Errorf("запись после расширения потеряна: %v", snap)
	}
}

func TestAt(t *testing.T) {
	b := NewLeadBuffer(models.LeadII, 3)
	for i := 0; i < 5; i++ {
		b.Append(float64(i * 10))
	}

	// остались 20, 30, 40
	if v, ok := b.At(0); !ok || v != 20 {
		t.Errorf("At(0) = %v,%v", v, ok)
	}
	if v, ok := b.At(2); !ok || v != 40 {
		t.Errorf("At(2) = %v,%v", v, ok)
	}
	if _, ok := b.At(3); ok {
		t.Error("At(3) должен быть вне диапазона")
	}
}

func TestLeadSetAppendAndReset(t *testing.T) {
	set := NewLeadSet(16)
	set.Append(models.LeadValues{
		models.LeadI:  1,
		models.LeadII: 2,
		models.LeadV1: 3,
	})
	set.Append(models.LeadValues{
		models.LeadI:  4,
		models.LeadII: 5,
		models.LeadV1: 6,
	})

	snap := set.Snapshot(models.LeadII)
	if len(snap) != 2 || snap[0] != 2 || snap[1] != 5 {
		t.Errorf("снимок II: %v", snap)
	}
	if set.Len(models.LeadV6) != 0 {
		t.Errorf("V6 должен быть пуст")
	}

	set.Reset()
	if set.Len(models.LeadII) != 0 {
		t.Error("после Reset буфер должен быть пуст")
	}
	if set.Capacity() != 16 {
		t.Errorf("Reset не должен менять ёмкость: %d", set.Capacity())
	}
}

func TestLeadSetResize(t *testing.T) {
	set := NewLeadSet(8)
	for i := 0; i < 8; i++ {
		set.Append(models.LeadValues{models.LeadII: float64(i)})
	}

	set.Resize(4)
	if set.Capacity() != 4 {
		t.Fatalf("Capacity = %d, ожидалось 4", set.Capacity())
	}
	snap := set.Snapshot(models.LeadII)
	if len(snap) != 4 || snap[0] != 4 || snap[3] != 7 {
		t.Errorf("после Resize снимок: %v", snap)
	}
}
