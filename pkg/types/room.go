package types

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrDuplicateId = errors.New("duplicate room id")
	ErrInvalidDate = errors.New("invalid room date")
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPlanned   Status = "planned"
)

type Location struct {
	City    string   `json:"city,omitempty" yaml:"city,omitempty"`
	Region  string   `json:"region,omitempty" yaml:"region,omitempty"`
	Country string   `json:"country,omitempty" yaml:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty" yaml:"lng,omitempty"`
}

// Room is one logged or planned escape room. Rooms are never mutated after load.
type Room struct {
	Id         int       `json:"id" yaml:"id"`
	Game       string    `json:"game" yaml:"game"`
	Company    string    `json:"company" yaml:"company"`
	CompanyUrl string    `json:"companyUrl,omitempty" yaml:"companyUrl,omitempty"`
	BlogUrl    string    `json:"blogUrl,omitempty" yaml:"blogUrl,omitempty"`
	Status     Status    `json:"status" yaml:"status"`
	Win        *bool     `json:"win,omitempty" yaml:"win,omitempty"`
	Date       string    `json:"date,omitempty" yaml:"date,omitempty"`
	EscapeTime string    `json:"escapeTime,omitempty" yaml:"escapeTime,omitempty"`
	Location   *Location `json:"location,omitempty" yaml:"location,omitempty"`
	Players    []string  `json:"players,omitempty" yaml:"players,omitempty"`
	Tags       []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Notes      string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type Dataset struct {
	Rooms []Room `json:"rooms" yaml:"rooms"`
}

func (r *Room) IsCompleted() bool {
	return r.Status == StatusCompleted
}

func (r *Room) IsPlanned() bool {
	return r.Status == StatusPlanned
}

// IsWin and IsLoss are both false while the outcome is unresolved.
func (r *Room) IsWin() bool {
	return r.Win != nil && *r.Win
}

func (r *Room) IsLoss() bool {
	return r.Win != nil && !*r.Win
}

func (r *Room) HasDate() bool {
	return r.Date != ""
}

// Year returns the first four characters of the date.
func (r *Room) Year() (string, bool) {
	if len(r.Date) < 4 {
		return "", false
	}
	return r.Date[:4], true
}

func (r *Room) City() string {
	if r.Location == nil {
		return ""
	}
	return r.Location.City
}

func (r *Room) Region() string {
	if r.Location == nil {
		return ""
	}
	return r.Location.Region
}

func (r *Room) Country() string {
	if r.Location == nil {
		return ""
	}
	return r.Location.Country
}

func (r *Room) Coordinates() (lat, lng float64, ok bool) {
	if r.Location == nil || r.Location.Lat == nil || r.Location.Lng == nil {
		return 0, 0, false
	}
	return *r.Location.Lat, *r.Location.Lng, true
}

func (r *Room) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

func (r *Room) HasPlayer(player string) bool {
	return slices.Contains(r.Players, player)
}

// SearchText is the lowercased text free-text queries are matched against.
func (r *Room) SearchText() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{r.Game, r.Company, r.City(), r.Region(), r.Notes} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func (d *Dataset) Validate() error {
	seen := make(map[int]struct{}, len(d.Rooms))
	for i := range d.Rooms {
		room := &d.Rooms[i]
		if _, ok := seen[room.Id]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateId, room.Id)
		}
		seen[room.Id] = struct{}{}
		if room.Date != "" {
			if _, err := time.Parse(time.DateOnly, room.Date); err != nil {
				return fmt.Errorf("%w: room %d has %q", ErrInvalidDate, room.Id, room.Date)
			}
		}
	}
	return nil
}
