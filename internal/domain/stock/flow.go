package stock

import (
	"time"

	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// FlowDays cantidad de días de la serie del dashboard.
const FlowDays = 7

// DailyFlow entradas y salidas de un día calendario.
type DailyFlow struct {
	Day     time.Time // 00:00 del día, en la zona de "now"
	Inflow  int       // Σ quantity de movimientos add
	Outflow int       // Σ quantity de movimientos remove
}

// StartOfDay devuelve las 00:00 del día de t en su propia zona.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeeklyFlow agrupa los movimientos de los últimos 7 días calendario (del más antiguo
// a hoy, inclusive). Los días sin movimientos quedan en 0/0.
func WeeklyFlow(txs []entity.Transaction, now time.Time) []DailyFlow {
	const layout = "2006-01-02"
	loc := now.Location()
	today := StartOfDay(now)

	days := make([]DailyFlow, FlowDays)
	index := make(map[string]int, FlowDays)
	for i := range days {
		day := today.AddDate(0, 0, i-(FlowDays-1))
		days[i].Day = day
		index[day.Format(layout)] = i
	}

	for _, t := range txs {
		i, ok := index[t.Date.In(loc).Format(layout)]
		if !ok {
			continue
		}
		switch t.Type {
		case entity.TransactionAdd:
			days[i].Inflow += t.Quantity
		case entity.TransactionRemove:
			days[i].Outflow += t.Quantity
		}
	}
	return days
}
