package pipeline

import (
	"encoding/csv"
	"io"
	"strconv"

	"ECG_monitor/internal/models"
)

// WriteCSV выгружает содержимое буферов в CSV. Заголовок: Sample и имена
// отведений; по строке на каждый индекс буфера от 0 до ёмкости-1. Если
// сэмплов собрано меньше ёмкости, недостающие ячейки остаются пустыми.
func (p *Pipeline) WriteCSV(w io.Writer) error {
	p.mu.RLock()
	capacity := p.buffers.Capacity()
	snapshots := p.buffers.SnapshotAll()
	p.mu.RUnlock()

	cw := csv.NewWriter(w)

	header := make([]string, 0, len(models.StandardLeads)+1)
	header = append(header, "Sample")
	for _, lead := range models.StandardLeads {
		header = append(header, string(lead))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i := 0; i < capacity; i++ {
		row[0] = strconv.Itoa(i)
		for j, lead := range models.StandardLeads {
			data := snapshots[lead]
			if i < len(data) {
				row[j+1] = strconv.FormatFloat(data[i], 'g', -1, 64)
			} else {
				row[j+1] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
