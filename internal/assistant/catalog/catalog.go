package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"stayhost/pkg/client"
	"stayhost/pkg/model"
)

const ActivePath = "/api/v1/accommodations/active"

var ErrUnavailable = errors.New("catalog unavailable")

// Provider lists the active accommodations the assistant may talk about.
type Provider interface {
	ListActive(ctx context.Context, filter model.AccommodationFilter) ([]*model.Accommodation, error)
}

// HTTPProvider reads the catalog from the accommodations service.
type HTTPProvider struct {
	client *client.HttpClient
}

func NewHTTPProvider(c *client.HttpClient) *HTTPProvider {
	return &HTTPProvider{client: c}
}

func (p *HTTPProvider) ListActive(ctx context.Context, filter model.AccommodationFilter) ([]*model.Accommodation, error) {
	query := url.Values{}
	if filter.Guests > 0 {
		query.Set("guests", strconv.Itoa(filter.Guests))
	}
	if filter.Location != "" {
		query.Set("location", filter.Location)
	}

	resp, err := p.client.GET(ctx, ActivePath, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, client.GetErrorMessage(resp))
	}

	var body struct {
		Data []*model.Accommodation `json:"data"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if body.Data == nil {
		return []*model.Accommodation{}, nil
	}
	return body.Data, nil
}

// StaticProvider serves a fixed in-memory list with the same filter rules.
type StaticProvider []*model.Accommodation

func (p StaticProvider) ListActive(_ context.Context, filter model.AccommodationFilter) ([]*model.Accommodation, error) {
	out := make([]*model.Accommodation, 0, len(p))
	for _, a := range p {
		if a.Active && a.Hosts(filter.Guests) && a.MatchesLocation(filter.Location) {
			out = append(out, a)
		}
	}
	return out, nil
}
