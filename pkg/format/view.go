package format

import (
	"strconv"

	"github.com/matst80/escape-finder/pkg/types"
)

// RoomView is a room together with the presentation fields of a room card.
type RoomView struct {
	types.Room `yaml:",inline"`

	Title        string `json:"title" yaml:"title"`
	StatusLabel  string `json:"statusLabel,omitempty" yaml:"statusLabel,omitempty"`
	DisplayDate  string `json:"displayDate,omitempty" yaml:"displayDate,omitempty"`
	DisplayPlace string `json:"displayLocation,omitempty" yaml:"displayLocation,omitempty"`
	TagViews     []Tag  `json:"tagViews" yaml:"tagViews"`
	KudosPath    string `json:"kudosPath" yaml:"kudosPath"`
}

func NewRoomView(room *types.Room) RoomView {
	return RoomView{
		Room:         *room,
		Title:        Title(room),
		StatusLabel:  StatusLabel(room),
		DisplayDate:  FormatDate(room.Date),
		DisplayPlace: FormatLocation(room.Location),
		TagViews:     Tags(room.Tags),
		KudosPath:    KudosPath(room),
	}
}

func RoomViews(rooms []types.Room) []RoomView {
	ret := make([]RoomView, len(rooms))
	for i := range rooms {
		ret[i] = NewRoomView(&rooms[i])
	}
	return ret
}

// ResultSummary is the text of the results counter.
func ResultSummary(count, total int) string {
	if count == total {
		return "Showing all " + strconv.Itoa(total) + " rooms"
	}
	return "Showing " + strconv.Itoa(count) + " of " + strconv.Itoa(total) + " rooms"
}
