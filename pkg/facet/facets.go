package facet

import (
	"maps"
	"slices"

	"github.com/matst80/escape-finder/pkg/types"
)

// Facets holds the distinct values used to populate the filter options.
type Facets struct {
	Tags      []string `json:"tags" yaml:"tags"`
	Years     []string `json:"years" yaml:"years"`
	Countries []string `json:"countries" yaml:"countries"`
	Players   []string `json:"players" yaml:"players"`
}

type keySet map[string]struct{}

func (k keySet) add(values ...string) {
	for _, v := range values {
		k[v] = struct{}{}
	}
}

func (k keySet) sorted() []string {
	if len(k) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(k))
}

func collect(rooms []types.Room, fn func(room *types.Room, keys keySet)) []string {
	keys := keySet{}
	for i := range rooms {
		fn(&rooms[i], keys)
	}
	return keys.sorted()
}

func Tags(rooms []types.Room) []string {
	return collect(rooms, func(room *types.Room, keys keySet) {
		keys.add(room.Tags...)
	})
}

func Years(rooms []types.Room) []string {
	return collect(rooms, func(room *types.Room, keys keySet) {
		if year, ok := room.Year(); ok {
			keys.add(year)
		}
	})
}

func Countries(rooms []types.Room) []string {
	return collect(rooms, func(room *types.Room, keys keySet) {
		if country := room.Country(); country != "" {
			keys.add(country)
		}
	})
}

func Players(rooms []types.Room) []string {
	return collect(rooms, func(room *types.Room, keys keySet) {
		keys.add(room.Players...)
	})
}

func All(rooms []types.Room) Facets {
	return Facets{
		Tags:      Tags(rooms),
		Years:     Years(rooms),
		Countries: Countries(rooms),
		Players:   Players(rooms),
	}
}
