package dashboard

import (
	"aviation-ops/models"
	"aviation-ops/parser"
	"sort"

	"github.com/samber/lo"
)

// NotAvailable is reported when there is nothing to rank.
const NotAvailable = "N/A"

// Measure selects the column Busiest ranks by.
type Measure int

const (
	ByFlights Measure = iota
	ByManHours
)

func (m Measure) value(row models.AggregateRow) float64 {
	if m == ByManHours {
		return row.TotalManHours
	}
	return row.TotalFlights
}

// Busiest returns the label of the row with the highest measure. Ties go to
// the row that comes first.
func Busiest(rows []models.AggregateRow, by Measure) string {
	best := -1
	for i, row := range rows {
		if best < 0 || by.value(row) > by.value(rows[best]) {
			best = i
		}
	}
	if best < 0 || rows[best].Label == "" {
		return NotAvailable
	}
	return rows[best].Label
}

// KPIs summarizes the records that pass a date filter.
type KPIs struct {
	TotalFlights   float64 `json:"totalFlights"`
	TotalManHours  float64 `json:"totalManHours"`
	BusiestAirport string  `json:"busiestAirport"`
	UniqueFiles    int     `json:"uniqueFiles"`
}

// Summarize computes totals, the airport with the most records, and how many
// source files contributed.
func Summarize(records []models.WorkLog, filter Filter) KPIs {
	filtered := filter.Apply(records)

	kpis := KPIs{
		TotalFlights:   lo.SumBy(filtered, func(r models.WorkLog) float64 { return r.Flights }),
		TotalManHours:  lo.SumBy(filtered, func(r models.WorkLog) float64 { return r.ManHours }),
		BusiestAirport: NotAvailable,
		UniqueFiles:    len(lo.Uniq(lo.Map(filtered, func(r models.WorkLog, _ int) string { return r.FileName }))),
	}

	airports := byLabel(filtered, func(r models.WorkLog) string { return r.Airport })
	best := -1
	for i, row := range airports {
		if best < 0 || row.RecordCount > airports[best].RecordCount {
			best = i
		}
	}
	if best >= 0 {
		kpis.BusiestAirport = airports[best].Label
	}
	return kpis
}

// AvailableYears lists the distinct years present in the records, newest first.
func AvailableYears(records []models.WorkLog) []string {
	years := lo.Uniq(lo.FilterMap(records, func(r models.WorkLog, _ int) (string, bool) {
		date := parser.NormalizeDate(r.Date)
		if len(date) < 4 {
			return "", false
		}
		return date[:4], true
	}))
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// View is everything one dashboard tab shows.
type View struct {
	Group             GroupBy               `json:"group"`
	Rows              []models.AggregateRow `json:"rows"`
	KPIs              KPIs                  `json:"kpis"`
	BusiestByFlights  string                `json:"busiestByFlights"`
	BusiestByManHours string                `json:"busiestByManHours"`
	AvailableYears    []string              `json:"availableYears"`
}

// BuildView aggregates one tab. KPIs follow the same filter as the rows:
// filtered for date groupings, the whole record set otherwise.
func BuildView(records []models.WorkLog, by GroupBy, filter Filter) (View, error) {
	rows, err := Aggregate(records, by, filter)
	if err != nil {
		return View{}, err
	}
	if !by.IsDateBased() {
		filter = Filter{}
	}
	return View{
		Group:             by,
		Rows:              rows,
		KPIs:              Summarize(records, filter),
		BusiestByFlights:  Busiest(rows, ByFlights),
		BusiestByManHours: Busiest(rows, ByManHours),
		AvailableYears:    AvailableYears(records),
	}, nil
}
