package sorting

import (
	"slices"
	"strings"

	"github.com/matst80/escape-finder/pkg/types"
)

// KeyFunc extracts the comparable key of a room for one sort field.
type KeyFunc func(room *types.Room) string

func keyFunc(field types.SortField) KeyFunc {
	switch field {
	case types.SortByGame:
		return func(room *types.Room) string {
			return strings.ToLower(room.Game)
		}
	case types.SortByCompany:
		return func(room *types.Room) string {
			return strings.ToLower(room.Company)
		}
	case types.SortByCity:
		return func(room *types.Room) string {
			return strings.ToLower(room.City())
		}
	}
	// ISO dates order lexicographically
	return func(room *types.Room) string {
		return room.Date
	}
}

// Compare is the three-way comparator for key. Equal keys always compare as 0.
func Compare(key types.SortKey) func(a, b types.Room) int {
	fn := keyFunc(key.Field)
	return func(a, b types.Room) int {
		c := strings.Compare(fn(&a), fn(&b))
		if key.Direction == types.Descending {
			return -c
		}
		return c
	}
}

// Sort returns a new slice ordered by key. Rooms with equal keys keep their
// input order and the input slice is left untouched.
func Sort(rooms []types.Room, key types.SortKey) []types.Room {
	ret := slices.Clone(rooms)
	slices.SortStableFunc(ret, Compare(key))
	return ret
}
