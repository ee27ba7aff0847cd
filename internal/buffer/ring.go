// Package buffer реализует кольцевые буферы сэмплов, по одному на отведение.
// Буфер хранит последние N сэмплов в порядке поступления; при переполнении
// самый старый сэмпл вытесняется без какой-либо гарантии долговечности.
package buffer

import (
	"sync"

	"ECG_monitor/internal/models"
)

// LeadBuffer кольцевой буфер одного отведения. Не потокобезопасен сам по
// себе: записью владеет единственный цикл обработки, читатели получают
// копии через LeadSet.
type LeadBuffer struct {
	lead models.Lead
	data []float64
	head int // индекс самого старого сэмпла
	size int
}

// NewLeadBuffer создает буфер фиксированной ёмкости
func NewLeadBuffer(lead models.Lead, capacity int) *LeadBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &LeadBuffer{
		lead: lead,
		data: make([]float64, capacity),
	}
}

// Lead возвращает отведение буфера
func (b *LeadBuffer) Lead() models.Lead {
	return b.lead
}

// Len текущее количество сэмплов, всегда <= Cap
func (b *LeadBuffer) Len() int {
	return b.size
}

// Cap ёмкость буфера
func (b *LeadBuffer) Cap() int {
	return len(b.data)
}

// Append добавляет сэмпл в хвост, вытесняя самый старый при переполнении
func (b *LeadBuffer) Append(v float64) {
	if b.size < len(b.data) {
		b.data[(b.head+b.size)%len(b.data)] = v
		b.size++
		return
	}

	b.data[b.head] = v
	b.head = (b.head + 1) % len(b.data)
}

// At возвращает i-й сэмпл в порядке поступления (0 — самый старый)
func (b *LeadBuffer) At(i int) (float64, bool) {
	if i < 0 || i >= b.size {
		return 0, false
	}
	return b.data[(b.head+i)%len(b.data)], true
}

// Snapshot возвращает копию сэмплов от старых к новым. Мутации буфера
// после вызова на копию не влияют.
func (b *LeadBuffer) Snapshot() []float64 {
	out := make([]float64, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.data[(b.head+i)%len(b.data)]
	}
	return out
}

// Resize меняет ёмкость, сохраняя последние min(size, newCapacity) сэмплов
func (b *LeadBuffer) Resize(newCapacity int) {
	if newCapacity < 1 {
		newCapacity = 1
	}
	if newCapacity == len(b.data) {
		return
	}

	snapshot := b.Snapshot()
	if len(snapshot) > newCapacity {
		snapshot = snapshot[len(snapshot)-newCapacity:]
	}

	data := make([]float64, newCapacity)
	copy(data, snapshot)

	b.data = data
	b.head = 0
	b.size = len(snapshot)
}

// Reset очищает буфер, ёмкость сохраняется
func (b *LeadBuffer) Reset() {
	b.head = 0
	b.size = 0
}

// LeadSet набор из 12 буферов с общей блокировкой. Доступ сериализован:
// писатель один (цикл обработки), читатели берут иммутабельные снимки.
type LeadSet struct {
	buffers map[models.Lead]*LeadBuffer
	mu      sync.RWMutex
}

// NewLeadSet создает буферы для всех стандартных отведений
func NewLeadSet(capacity int) *LeadSet {
	buffers := make(map[models.Lead]*LeadBuffer, len(models.StandardLeads))
	for _, lead := range models.StandardLeads {
		buffers[lead] = NewLeadBuffer(lead, capacity)
	}
	return &LeadSet{buffers: buffers}
}

// Append добавляет значения одного кадра во все буферы
func (s *LeadSet) Append(values models.LeadValues) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for lead, v := range values {
		if buf, ok := s.buffers[lead]; ok {
			buf.Append(v)
		}
	}
}

// Snapshot копия сэмплов одного отведения от старых к новым
func (s *LeadSet) Snapshot(lead models.Lead) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buf, ok := s.buffers[lead]
	if !ok {
		return nil
	}
	return buf.Snapshot()
}

// SnapshotAll копии всех отведений одним согласованным срезом
func (s *LeadSet) SnapshotAll() map[models.Lead][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.Lead][]float64, len(s.buffers))
	for lead, buf := range s.buffers {
		out[lead] = buf.Snapshot()
	}
	return out
}

// Len количество сэмплов в буфере отведения
func (s *LeadSet) Len(lead models.Lead) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buf, ok := s.buffers[lead]
	if !ok {
		return 0
	}
	return buf.Len()
}

// Capacity текущая ёмкость буферов
func (s *LeadSet) Capacity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, buf := range s.buffers {
		return buf.Cap()
	}
	return 0
}

// Resize меняет ёмкость всех буферов, сохраняя свежие сэмплы.
// Вызывается при смене скорости развёртки во время работы.
func (s *LeadSet) Resize(capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, buf := range s.buffers {
		buf.Resize(capacity)
	}
}

// Reset очищает все буферы (явный сброс, стоп их не очищает)
func (s *LeadSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, buf := range s.buffers {
		buf.Reset()
	}
}
