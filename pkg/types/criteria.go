package types

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidCriteria = errors.New("invalid criteria")

// AllSentinel is the query value meaning "no constraint" for status and win.
const AllSentinel = "all"

type StatusFilter uint8

const (
	AnyStatus StatusFilter = iota
	OnlyCompleted
	OnlyPlanned
)

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch s {
	case "", AllSentinel:
		return AnyStatus, nil
	case string(StatusCompleted):
		return OnlyCompleted, nil
	case string(StatusPlanned):
		return OnlyPlanned, nil
	}
	return AnyStatus, fmt.Errorf("%w: status %q", ErrInvalidCriteria, s)
}

func (s StatusFilter) String() string {
	switch s {
	case OnlyCompleted:
		return string(StatusCompleted)
	case OnlyPlanned:
		return string(StatusPlanned)
	}
	return AllSentinel
}

func (s StatusFilter) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StatusFilter) UnmarshalText(b []byte) error {
	v, err := ParseStatusFilter(string(b))
	*s = v
	return err
}

// Status returns the required room status, false when unconstrained.
func (s StatusFilter) Status() (Status, bool) {
	switch s {
	case OnlyCompleted:
		return StatusCompleted, true
	case OnlyPlanned:
		return StatusPlanned, true
	}
	return "", false
}

type WinFilter uint8

const (
	AnyOutcome WinFilter = iota
	OnlyWins
	OnlyLosses
)

func ParseWinFilter(s string) (WinFilter, error) {
	switch s {
	case "", AllSentinel:
		return AnyOutcome, nil
	case "wins":
		return OnlyWins, nil
	case "losses":
		return OnlyLosses, nil
	}
	return AnyOutcome, fmt.Errorf("%w: win %q", ErrInvalidCriteria, s)
}

func (w WinFilter) String() string {
	switch w {
	case OnlyWins:
		return "wins"
	case OnlyLosses:
		return "losses"
	}
	return AllSentinel
}

func (w WinFilter) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *WinFilter) UnmarshalText(b []byte) error {
	v, err := ParseWinFilter(string(b))
	*w = v
	return err
}

// Criteria is the set of active constraints for one query. Zero values mean
// the dimension is unconstrained.
type Criteria struct {
	Query   string       `json:"q,omitempty" yaml:"q,omitempty"`
	Tags    []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Year    string       `json:"year,omitempty" yaml:"year,omitempty"`
	Status  StatusFilter `json:"status" yaml:"status"`
	Win     WinFilter    `json:"win" yaml:"win"`
	Country string       `json:"country,omitempty" yaml:"country,omitempty"`
	Player  string       `json:"player,omitempty" yaml:"player,omitempty"`
}

// SplitTags parses the comma separated tag parameter.
func SplitTags(value string) []string {
	ret := make([]string, 0)
	for _, t := range strings.Split(value, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		ret = append(ret, t)
	}
	return ret
}

func (c *Criteria) IsEmpty() bool {
	return c.Query == "" && len(c.Tags) == 0 && c.Year == "" &&
		c.Status == AnyStatus && c.Win == AnyOutcome &&
		c.Country == "" && c.Player == ""
}

// Values serializes the criteria, leaving out absent and default fields.
func (c *Criteria) Values() url.Values {
	v := url.Values{}
	if c.Query != "" {
		v.Set("q", c.Query)
	}
	if len(c.Tags) > 0 {
		v.Set("tag", strings.Join(c.Tags, ","))
	}
	if c.Year != "" {
		v.Set("year", c.Year)
	}
	if c.Status != AnyStatus {
		v.Set("status", c.Status.String())
	}
	if c.Win != AnyOutcome {
		v.Set("win", c.Win.String())
	}
	if c.Country != "" {
		v.Set("country", c.Country)
	}
	if c.Player != "" {
		v.Set("player", c.Player)
	}
	return v
}

// Pills lists a label for every active constraint.
func (c *Criteria) Pills() []string {
	pills := make([]string, 0)
	if c.Query != "" {
		pills = append(pills, `Search: "`+c.Query+`"`)
	}
	for _, tag := range c.Tags {
		pills = append(pills, "Tag: "+tag)
	}
	if c.Year != "" {
		pills = append(pills, "Year: "+c.Year)
	}
	if c.Status != AnyStatus {
		pills = append(pills, "Status: "+c.Status.String())
	}
	if c.Win != AnyOutcome {
		pills = append(pills, "Result: "+c.Win.String())
	}
	if c.Country != "" {
		pills = append(pills, "Country: "+c.Country)
	}
	if c.Player != "" {
		pills = append(pills, "Player: "+c.Player)
	}
	return pills
}
