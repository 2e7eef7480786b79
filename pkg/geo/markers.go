package geo

import (
	"github.com/matst80/escape-finder/pkg/format"
	"github.com/matst80/escape-finder/pkg/types"
)

const (
	ColorPlanned = "#60a5fa"
	ColorBest    = "#e6b84f"
	ColorWin     = "#48d989"
	ColorLoss    = "#f06060"
	ColorDefault = "#9a97a8"

	BestTag = "best"
)

type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Popup is the content shown when a marker is opened.
type Popup struct {
	Title       string       `json:"title" yaml:"title"`
	Company     string       `json:"company,omitempty" yaml:"company,omitempty"`
	CompanyUrl  string       `json:"companyUrl,omitempty" yaml:"companyUrl,omitempty"`
	Date        string       `json:"date,omitempty" yaml:"date,omitempty"`
	Location    string       `json:"location,omitempty" yaml:"location,omitempty"`
	EscapeTime  string       `json:"escapeTime,omitempty" yaml:"escapeTime,omitempty"`
	StatusLabel string       `json:"statusLabel,omitempty" yaml:"statusLabel,omitempty"`
	Tags        []format.Tag `json:"tags" yaml:"tags"`
	BlogUrl     string       `json:"blogUrl,omitempty" yaml:"blogUrl,omitempty"`
}

type Marker struct {
	Id      int    `json:"id" yaml:"id"`
	Point   Point  `json:"point" yaml:"point"`
	Color   string `json:"color" yaml:"color"`
	Planned bool   `json:"planned" yaml:"planned"`
	Best    bool   `json:"best" yaml:"best"`
	Popup   Popup  `json:"popup" yaml:"popup"`
}

// Bounds is the south-west / north-east box around a set of markers.
type Bounds struct {
	SouthWest Point `json:"southWest" yaml:"southWest"`
	NorthEast Point `json:"northEast" yaml:"northEast"`
}

func MarkerColor(room *types.Room) string {
	switch {
	case room.IsPlanned():
		return ColorPlanned
	case room.HasTag(BestTag):
		return ColorBest
	case room.IsWin():
		return ColorWin
	case room.IsLoss():
		return ColorLoss
	}
	return ColorDefault
}

func NewPopup(room *types.Room) Popup {
	return Popup{
		Title:       format.Title(room),
		Company:     room.Company,
		CompanyUrl:  room.CompanyUrl,
		Date:        format.FormatDate(room.Date),
		Location:    format.FormatLocation(room.Location),
		EscapeTime:  room.EscapeTime,
		StatusLabel: format.StatusLabel(room),
		Tags:        format.Tags(room.Tags),
		BlogUrl:     room.BlogUrl,
	}
}

// NewMarker returns false for rooms that are missing a coordinate.
func NewMarker(room *types.Room) (Marker, bool) {
	lat, lng, ok := room.Coordinates()
	if !ok {
		return Marker{}, false
	}
	return Marker{
		Id:      room.Id,
		Point:   Point{Lat: lat, Lng: lng},
		Color:   MarkerColor(room),
		Planned: room.IsPlanned(),
		Best:    room.HasTag(BestTag),
		Popup:   NewPopup(room),
	}, true
}

// Markers keeps the mappable rooms in input order.
func Markers(rooms []types.Room) []Marker {
	ret := make([]Marker, 0, len(rooms))
	for i := range rooms {
		if m, ok := NewMarker(&rooms[i]); ok {
			ret = append(ret, m)
		}
	}
	return ret
}

// GetBounds reports false when there is nothing to fit.
func GetBounds(markers []Marker) (Bounds, bool) {
	if len(markers) == 0 {
		return Bounds{}, false
	}
	first := markers[0].Point
	b := Bounds{SouthWest: first, NorthEast: first}
	for _, m := range markers[1:] {
		b.SouthWest.Lat = min(b.SouthWest.Lat, m.Point.Lat)
		b.SouthWest.Lng = min(b.SouthWest.Lng, m.Point.Lng)
		b.NorthEast.Lat = max(b.NorthEast.Lat, m.Point.Lat)
		b.NorthEast.Lng = max(b.NorthEast.Lng, m.Point.Lng)
	}
	return b, true
}
