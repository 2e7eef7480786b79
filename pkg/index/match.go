package index

import (
	"strings"

	"github.com/matst80/escape-finder/pkg/types"
)

// Rule is a single predicate of the filter conjunction.
type Rule func(room *types.Room) bool

func queryRule(query string) Rule {
	q := strings.ToLower(query)
	return func(room *types.Room) bool {
		return strings.Contains(room.SearchText(), q)
	}
}

func tagsRule(tags []string) Rule {
	return func(room *types.Room) bool {
		for _, tag := range tags {
			if !room.HasTag(tag) {
				return false
			}
		}
		return true
	}
}

func yearRule(year string) Rule {
	return func(room *types.Room) bool {
		y, ok := room.Year()
		return ok && y == year
	}
}

func statusRule(status types.Status) Rule {
	return func(room *types.Room) bool {
		return room.Status == status
	}
}

func winRule(win types.WinFilter) Rule {
	return func(room *types.Room) bool {
		if win == types.OnlyWins {
			return room.IsWin()
		}
		return room.IsLoss()
	}
}

func countryRule(country string) Rule {
	return func(room *types.Room) bool {
		return room.Location != nil && room.Location.Country == country
	}
}

func playerRule(player string) Rule {
	return func(room *types.Room) bool {
		return room.HasPlayer(player)
	}
}

// Rules returns one rule for every present criteria field.
func Rules(c *types.Criteria) []Rule {
	rules := make([]Rule, 0, 7)
	if c.Query != "" {
		rules = append(rules, queryRule(c.Query))
	}
	if len(c.Tags) > 0 {
		rules = append(rules, tagsRule(c.Tags))
	}
	if c.Year != "" {
		rules = append(rules, yearRule(c.Year))
	}
	if status, ok := c.Status.Status(); ok {
		rules = append(rules, statusRule(status))
	}
	if c.Win != types.AnyOutcome {
		rules = append(rules, winRule(c.Win))
	}
	if c.Country != "" {
		rules = append(rules, countryRule(c.Country))
	}
	if c.Player != "" {
		rules = append(rules, playerRule(c.Player))
	}
	return rules
}

func matchAll(rules []Rule, room *types.Room) bool {
	for _, rule := range rules {
		if !rule(room) {
			return false
		}
	}
	return true
}

func Match(room *types.Room, c *types.Criteria) bool {
	return matchAll(Rules(c), room)
}

// Filter returns the rooms matching every present field of c, in input order.
// The input is not modified.
func Filter(rooms []types.Room, c *types.Criteria) []types.Room {
	rules := Rules(c)
	ret := make([]types.Room, 0, len(rooms))
	for i := range rooms {
		if matchAll(rules, &rooms[i]) {
			ret = append(ret, rooms[i])
		}
	}
	return ret
}

func Completed(rooms []types.Room) []types.Room {
	return Filter(rooms, &types.Criteria{Status: types.OnlyCompleted})
}

func Planned(rooms []types.Room) []types.Room {
	return Filter(rooms, &types.Criteria{Status: types.OnlyPlanned})
}
