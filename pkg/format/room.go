package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/matst80/escape-finder/pkg/types"
)

const longDate = "January 2, 2006"

// FormatDate renders an ISO date the en-US long way, "May 1, 2022".
func FormatDate(date string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format(longDate)
}

func FormatLocation(loc *types.Location) string {
	if loc == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{loc.City, loc.Region, loc.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func StatusLabel(room *types.Room) string {
	switch {
	case room.IsPlanned():
		return "Planned"
	case room.IsWin():
		return "✓ Escaped"
	case room.IsLoss():
		return "✗ Locked Out"
	}
	return ""
}

func Title(room *types.Room) string {
	return "#" + strconv.Itoa(room.Id) + " " + room.Game
}

func KudosPath(room *types.Room) string {
	return "/room/" + strconv.Itoa(room.Id)
}
