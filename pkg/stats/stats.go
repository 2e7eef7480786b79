package stats

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matst80/escape-finder/pkg/facet"
	"github.com/matst80/escape-finder/pkg/format"
	"github.com/matst80/escape-finder/pkg/index"
	"github.com/matst80/escape-finder/pkg/types"
)

const (
	MaxLocations    = 15
	MaxCompanies    = 10
	UnknownLocation = "Unknown"
)

var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Wins      int `json:"wins" yaml:"wins"`
	WinRate   int `json:"winRate" yaml:"winRate"`
	Regions   int `json:"regions" yaml:"regions"`
	Countries int `json:"countries" yaml:"countries"`
	Companies int `json:"companies" yaml:"companies"`
	Years     int `json:"years" yaml:"years"`
}

type YearResult struct {
	Year   string `json:"year" yaml:"year"`
	Wins   int    `json:"wins" yaml:"wins"`
	Losses int    `json:"losses" yaml:"losses"`
}

type MonthCount struct {
	Month string `json:"month" yaml:"month"`
	Count int    `json:"count" yaml:"count"`
}

type Count struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

type TimePoint struct {
	X     string  `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Label string  `json:"label" yaml:"label"`
}

// Stats is every series shown on the stats page.
type Stats struct {
	Summary     Summary      `json:"summary" yaml:"summary"`
	PerYear     []YearResult `json:"perYear" yaml:"perYear"`
	Monthly     []MonthCount `json:"monthly" yaml:"monthly"`
	Locations   []Count      `json:"locations" yaml:"locations"`
	Companies   []Count      `json:"companies" yaml:"companies"`
	EscapeTimes []TimePoint  `json:"escapeTimes" yaml:"escapeTimes"`
}

// Compute builds all series. Only completed rooms are counted, the year and
// country totals of the summary are taken over every room.
func Compute(rooms []types.Room) Stats {
	completed := index.Completed(rooms)
	return Stats{
		Summary:     NewSummary(completed, len(facet.Years(rooms)), len(facet.Countries(rooms))),
		PerYear:     PerYear(completed),
		Monthly:     Monthly(completed),
		Locations:   Locations(completed),
		Companies:   Companies(completed),
		EscapeTimes: EscapeTimes(completed),
	}
}

func NewSummary(completed []types.Room, years, countries int) Summary {
	regions := map[string]struct{}{}
	companies := map[string]struct{}{}
	wins := 0
	for i := range completed {
		room := &completed[i]
		if room.IsWin() {
			wins++
		}
		if region := room.Region(); region != "" {
			regions[region] = struct{}{}
		}
		if room.Company != "" {
			companies[room.Company] = struct{}{}
		}
	}
	return Summary{
		Total:     len(completed),
		Wins:      wins,
		WinRate:   WinRate(wins, len(completed)),
		Regions:   len(regions),
		Countries: countries,
		Companies: len(companies),
		Years:     years,
	}
}

// WinRate is the rounded percentage of wins, 0 when total is 0.
func WinRate(wins, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(total) * 100))
}

// PerYear counts wins and losses per year, oldest first. A room that is not
// a win counts as a loss.
func PerYear(completed []types.Room) []YearResult {
	byYear := map[string]*YearResult{}
	for i := range completed {
		room := &completed[i]
		year, ok := room.Year()
		if !ok {
			continue
		}
		res, found := byYear[year]
		if !found {
			res = &YearResult{Year: year}
			byYear[year] = res
		}
		if room.IsWin() {
			res.Wins++
		} else {
			res.Losses++
		}
	}
	ret := make([]YearResult, 0, len(byYear))
	for _, res := range byYear {
		ret = append(ret, *res)
	}
	slices.SortFunc(ret, func(a, b YearResult) int {
		return strings.Compare(a.Year, b.Year)
	})
	return ret
}

func month(date string) (int, bool) {
	if len(date) < 7 {
		return 0, false
	}
	m, err := strconv.Atoi(date[5:7])
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return m - 1, true
}

func Monthly(completed []types.Room) []MonthCount {
	ret := make([]MonthCount, len(MonthLabels))
	for i, label := range MonthLabels {
		ret[i].Month = label
	}
	for i := range completed {
		if m, ok := month(completed[i].Date); ok {
			ret[m].Count++
		}
	}
	return ret
}

// counter keeps the first-seen order of its labels so equal counts keep it after sorting.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) top(limit int) []Count {
	ret := make([]Count, len(c.order))
	for i, label := range c.order {
		ret[i] = Count{Label: label, Count: c.counts[label]}
	}
	slices.SortStableFunc(ret, func(a, b Count) int {
		return b.Count - a.Count
	})
	if len(ret) > limit {
		ret = ret[:limit]
	}
	return ret
}

func locationLabel(loc *types.Location) string {
	parts := make([]string, 0, 2)
	if loc.Region != "" {
		parts = append(parts, loc.Region)
	}
	if loc.Country != "" {
		parts = append(parts, loc.Country)
	}
	if len(parts) == 0 {
		return UnknownLocation
	}
	return strings.Join(parts, ", ")
}

// Locations counts rooms per "region, country". Rooms without a location are skipped.
func Locations(completed []types.Room) []Count {
	c := newCounter()
	for i := range completed {
		if loc := completed[i].Location; loc != nil {
			c.add(locationLabel(loc))
		}
	}
	return c.top(MaxLocations)
}

func Companies(completed []types.Room) []Count {
	c := newCounter()
	for i := range completed {
		if company := completed[i].Company; company != "" {
			c.add(company)
		}
	}
	return c.top(MaxCompanies)
}

// EscapeTimes returns the rooms with a readable escape time ordered by date.
func EscapeTimes(completed []types.Room) []TimePoint {
	ret := make([]TimePoint, 0)
	for i := range completed {
		room := &completed[i]
		minutes, ok := format.EscapeTimeMinutes(room.EscapeTime)
		if !ok {
			continue
		}
		ret = append(ret, TimePoint{X: room.Date, Y: minutes, Label: format.Title(room)})
	}
	slices.SortStableFunc(ret, func(a, b TimePoint) int {
		return strings.Compare(a.X, b.X)
	})
	return ret
}
