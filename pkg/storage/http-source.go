package storage

import (
	"context"
	"fmt"
	"net/http"

	"github.com/matst80/escape-finder/pkg/types"
)

// HttpSource fetches the dataset with one anonymous GET.
type HttpSource struct {
	Url    string
	Client *http.Client
}

func NewHttpSource(url string) *HttpSource {
	return &HttpSource{
		Url:    url,
		Client: http.DefaultClient,
	}
}

func (s *HttpSource) String() string {
	return s.Url
}

func (s *HttpSource) Fetch(ctx context.Context) (*types.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrStatus, s.Url, res.StatusCode)
	}
	ds := &types.Dataset{}
	if err = decodeJson(res.Body, ds); err != nil {
		return nil, err
	}
	return ds, nil
}
