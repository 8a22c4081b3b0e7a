package core

// InclusiveDayCount returns the number of calendar days spanned by
// [start, end], counting both endpoints. A range where start equals end
// spans exactly one day. The difference is taken as an absolute value, so
// a reversed range yields the same count instead of an error; see
// DESIGN.md for why that leniency is kept.
func InclusiveDayCount(start, end Date) int {
	diff := end.Sub(start.Time)
	if diff < 0 {
		diff = -diff
	}
	const day = 24 * 60 * 60 * 1e9
	return int(diff/day) + 1
}

// DailyCost computes the total amount attributable to one calendar day
// across the whole transaction list. Instantaneous transactions land in
// full on their date; amortized ones contribute amount/days for every day
// inside their inclusive range. Pure function, safe for concurrent use.
func DailyCost(target Date, txs []Transaction) float64 {
	var total float64
	for _, tx := range txs {
		if tx.Amortized() {
			if !target.Before(tx.Date.Time) && !target.After(tx.EndDate.Time) {
				days := InclusiveDayCount(tx.Date, tx.EndDate)
				total += tx.Amount / float64(days)
			}
		} else if tx.Date.Equal(target) {
			total += tx.Amount
		}
	}
	return total
}

// DailyStat is one point of a per-day cost series.
type DailyStat struct {
	Date   Date    `json:"date"`
	Amount float64 `json:"amount"`
}

// DailyRange computes the daily cost for the n days ending at end,
// oldest first. This is the series behind the "last 7 days" view.
func DailyRange(end Date, n int, txs []Transaction) []DailyStat {
	if n <= 0 {
		return nil
	}
	stats := make([]DailyStat, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := DateOf(end.AddDate(0, 0, -i))
		stats = append(stats, DailyStat{Date: d, Amount: DailyCost(d, txs)})
	}
	return stats
}
