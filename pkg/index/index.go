package index

import (
	"github.com/matst80/escape-finder/pkg/facet"
	"github.com/matst80/escape-finder/pkg/types"
)

// RoomIndex is a read-only view over the loaded rooms with an id lookup and
// precomputed facets. It is safe for concurrent readers.
type RoomIndex struct {
	rooms  []types.Room
	byId   map[int]int
	facets facet.Facets
}

func NewRoomIndex(rooms []types.Room) *RoomIndex {
	byId := make(map[int]int, len(rooms))
	for i := range rooms {
		byId[rooms[i].Id] = i
	}
	return &RoomIndex{
		rooms:  rooms,
		byId:   byId,
		facets: facet.All(rooms),
	}
}

func (i *RoomIndex) Len() int {
	return len(i.rooms)
}

// All returns the rooms in load order. Callers must not modify the slice.
func (i *RoomIndex) All() []types.Room {
	return i.rooms
}

func (i *RoomIndex) Get(id int) (*types.Room, bool) {
	idx, ok := i.byId[id]
	if !ok {
		return nil, false
	}
	return &i.rooms[idx], true
}

func (i *RoomIndex) Facets() facet.Facets {
	return i.facets
}

func (i *RoomIndex) Filter(c *types.Criteria) []types.Room {
	return Filter(i.rooms, c)
}
