package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/apperr"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/platform/obs"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.mapbox.com"
	// mapbox.places is the temporary-use endpoint; results may not be stored
	// long term except for the selected coordinate value.
	endpointPath = "/geocoding/v5/mapbox.places/"
)

// MapboxGeocoder implements ports.Geocoder using the Mapbox Geocoding API.
//
// One call to ForwardGeocode issues exactly one HTTP request. There is no
// retry, caching or de-duplication. The geocoder is safe for concurrent use.
type MapboxGeocoder struct {
	session     *http.Client
	accessToken string
	baseURL     string
	log         *logger.Logger
}

type MapboxConfig struct {
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *logger.Logger
}

func NewMapboxGeocoder(cfg MapboxConfig) (*MapboxGeocoder, error) {
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, apperr.Configuration("mapbox access token is empty").WithOp("geocoding.NewMapboxGeocoder")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, apperr.Wrap(apperr.KindConfiguration, "invalid mapbox base url", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &MapboxGeocoder{
		session:     client,
		accessToken: token,
		baseURL:     baseURL,
		log:         cfg.Logger,
	}, nil
}

type featureCollection struct {
	Type     string         `json:"type"`
	Features []domain.Place `json:"features"`
}

// ForwardGeocode resolves a free-text query to candidate places.
func (m *MapboxGeocoder) ForwardGeocode(
	ctx context.Context,
	query string,
	opts domain.QueryOptions,
) (_ []domain.Place, err error) {
	defer obs.Time(ctx, m.log, "mapbox.ForwardGeocode")(&err)

	query = normalize(query)
	if query == "" {
		return nil, apperr.Validation("geocode query must be non-empty").WithOp("mapbox.ForwardGeocode")
	}

	endpoint := m.baseURL + endpointPath + url.PathEscape(query) + ".json"
	req, err := m.newRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("mapbox geocode request: %w", err)
	}
	req.URL.RawQuery = m.queryParams(opts).Encode()

	resp, err := m.do(req)
	if err != nil {
		return nil, apperr.Upstream("mapbox geocode failed", err).WithOp("mapbox.ForwardGeocode")
	}
	defer resp.Body.Close()

	var decoded featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperr.Upstream("decode mapbox geocode response", err).WithOp("mapbox.ForwardGeocode")
	}

	if decoded.Features == nil {
		return []domain.Place{}, nil
	}
	return decoded.Features, nil
}

func (m *MapboxGeocoder) queryParams(opts domain.QueryOptions) url.Values {
	q := url.Values{}
	q.Set("access_token", m.accessToken)
	q.Set("autocomplete", "true")

	if len(opts.Countries) > 0 {
		countries := make([]string, 0, len(opts.Countries))
		for _, c := range opts.Countries {
			countries = append(countries, strings.ToLower(c))
		}
		q.Set("country", strings.Join(countries, ","))
	}
	if len(opts.Types) > 0 {
		q.Set("types", strings.Join(opts.Types, ","))
	}
	if opts.Proximity != nil {
		lonLat := opts.Proximity.CoordsToList()
		q.Set("proximity", domain.FormatPair(lonLat[0], lonLat[1]))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Language != "" {
		q.Set("language", opts.Language)
	}
	return q
}

// normalize collapses whitespace so "  Tacoma   WA " and "Tacoma WA" send the
// same query.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsStatus reports whether err came from a provider response with the given
// HTTP status code.
func IsStatus(err error, code int) bool {
	var he *httpStatusError
	return errors.As(err, &he) && he.Code == code
}
