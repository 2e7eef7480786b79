package types

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
)

type SearchRequest struct {
	Criteria
	SortKey
}

// queryParams mirrors the url parameters, sentinel values are resolved into
// closed variants afterwards.
type queryParams struct {
	Query   string `schema:"q"`
	Tag     string `schema:"tag"`
	Year    string `schema:"year"`
	Status  string `schema:"status,default:all"`
	Win     string `schema:"win,default:all"`
	Country string `schema:"country"`
	Player  string `schema:"player"`
	Sort    string `schema:"sort,default:date"`
	Dir     string `schema:"dir"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func GetSearchRequestFromRequest(r *http.Request) (*SearchRequest, error) {
	return SearchRequestFromValues(r.URL.Query())
}

func SearchRequestFromValues(query url.Values) (*SearchRequest, error) {
	params := queryParams{}
	if err := decoder.Decode(&params, query); err != nil {
		return nil, err
	}
	criteria, err := params.criteria()
	if err != nil {
		return nil, err
	}
	field := ParseSortField(params.Sort)
	dir := DefaultDirection(field)
	if params.Dir != "" {
		dir = ParseSortDirection(params.Dir)
	}
	return &SearchRequest{
		Criteria: *criteria,
		SortKey:  SortKey{Field: field, Direction: dir},
	}, nil
}

// CriteriaFromValues parses only the filter parameters.
func CriteriaFromValues(query url.Values) (*Criteria, error) {
	params := queryParams{}
	if err := decoder.Decode(&params, query); err != nil {
		return nil, err
	}
	return params.criteria()
}

func (p *queryParams) criteria() (*Criteria, error) {
	status, err := ParseStatusFilter(p.Status)
	if err != nil {
		return nil, err
	}
	win, err := ParseWinFilter(p.Win)
	if err != nil {
		return nil, err
	}
	return &Criteria{
		Query:   strings.TrimSpace(p.Query),
		Tags:    SplitTags(p.Tag),
		Year:    strings.TrimSpace(p.Year),
		Status:  status,
		Win:     win,
		Country: p.Country,
		Player:  p.Player,
	}, nil
}

// Values serializes criteria and sort, the sort is left out when it is the default.
func (s *SearchRequest) Values() url.Values {
	v := s.Criteria.Values()
	if s.SortKey != DefaultSortKey() {
		v.Set("sort", s.Field.String())
		v.Set("dir", s.Direction.String())
	}
	return v
}
