package types

type SortField uint8

const (
	SortByDate SortField = iota
	SortByGame
	SortByCompany
	SortByCity
)

// ParseSortField never fails, unknown names sort by date.
func ParseSortField(s string) SortField {
	switch s {
	case "game":
		return SortByGame
	case "company":
		return SortByCompany
	case "city":
		return SortByCity
	}
	return SortByDate
}

func (f SortField) String() string {
	switch f {
	case SortByGame:
		return "game"
	case SortByCompany:
		return "company"
	case SortByCity:
		return "city"
	}
	return "date"
}

func (f SortField) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *SortField) UnmarshalText(b []byte) error {
	*f = ParseSortField(string(b))
	return nil
}

type SortDirection uint8

const (
	Descending SortDirection = iota
	Ascending
)

func ParseSortDirection(s string) SortDirection {
	if s == "asc" {
		return Ascending
	}
	return Descending
}

func (d SortDirection) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

func (d SortDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *SortDirection) UnmarshalText(b []byte) error {
	*d = ParseSortDirection(string(b))
	return nil
}

func (d SortDirection) Reverse() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

type SortKey struct {
	Field     SortField     `json:"sort" yaml:"sort"`
	Direction SortDirection `json:"dir" yaml:"dir"`
}

func DefaultSortKey() SortKey {
	return SortKey{Field: SortByDate, Direction: Descending}
}

// DefaultDirection is the direction a field starts with when first selected.
func DefaultDirection(f SortField) SortDirection {
	if f == SortByDate {
		return Descending
	}
	return Ascending
}

// Toggle selects field, flipping the direction when it is already selected.
func (k SortKey) Toggle(field SortField) SortKey {
	if k.Field == field {
		return SortKey{Field: field, Direction: k.Direction.Reverse()}
	}
	return SortKey{Field: field, Direction: DefaultDirection(field)}
}
