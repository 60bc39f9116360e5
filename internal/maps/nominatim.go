// Package maps wraps the external address-lookup provider (Nominatim) behind
// a small client. No retry or backoff happens at this layer; burst protection
// is the search controller's job.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"mobiurban/internal/config"
	"mobiurban/internal/observability"
	"mobiurban/internal/types"
)

// minQueryLen is the shortest query worth sending to the provider. Shorter
// input returns no candidates without a network call.
const minQueryLen = 3

// GeocodeError wraps provider failures: unreachable, timed out, or no match.
// Callers recover by substituting a default address.
type GeocodeError struct {
	Op  string
	Err error
}

func (e *GeocodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("geocode %s: no result", e.Op)
	}
	return fmt.Sprintf("geocode %s: %v", e.Op, e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// AddressCandidate is one provider result. Immutable once returned; selecting
// one turns it into the ride's chosen location.
type AddressCandidate struct {
	PlaceID     string           `json:"id"`
	DisplayName string           `json:"address"`
	Coordinate  types.Coordinate `json:"coordinate"`
	PlaceType   string           `json:"type"`
	Importance  float64          `json:"importance"`
}

// AddressDetails carries the structured components of a reverse-geocoded address.
type AddressDetails struct {
	Road          string `json:"road,omitempty"`
	HouseNumber   string `json:"house_number,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
	Country       string `json:"country,omitempty"`
}

// ReverseResult is a display address plus its structured components.
type ReverseResult struct {
	DisplayName string         `json:"address"`
	Details     AddressDetails `json:"details"`
}

// Geocoder is the Nominatim-backed geocoding adapter.
type Geocoder struct {
	baseURL   string
	userAgent string
	country   string
	client    *http.Client
	log       *logrus.Logger
}

func NewGeocoder(cfg config.GeocodingConfig, log *logrus.Logger) *Geocoder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Geocoder{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		country:   cfg.CountryCode,
		client:    &http.Client{Timeout: timeout},
		log:       log,
	}
}

// nominatimResult mirrors one entry of a Nominatim search response.
// Coordinates arrive as strings.
type nominatimResult struct {
	PlaceID     json.Number     `json:"place_id"`
	DisplayName string          `json:"display_name"`
	Lat         string          `json:"lat"`
	Lon         string          `json:"lon"`
	Type        string          `json:"type"`
	Importance  float64         `json:"importance"`
	Address     *AddressDetails `json:"address"`
	Error       string          `json:"error"`
}

// SearchAddresses resolves free text into candidates for the suggestion list.
// Best-effort: provider errors are logged and an empty list is returned.
func (g *Geocoder) SearchAddresses(ctx context.Context, query string) []AddressCandidate {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLen {
		return nil
	}
	results, err := g.search(ctx, query, true)
	if err != nil {
		observability.GeocodeFailures.Inc()
		g.log.WithError(err).WithField("query", query).Warn("address search failed")
		return nil
	}
	return results
}

// Suggest is like SearchAddresses but surfaces provider errors so callers
// can tell a failed lookup apart from an empty result.
func (g *Geocoder) Suggest(ctx context.Context, query string) ([]AddressCandidate, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLen {
		return nil, nil
	}
	results, err := g.search(ctx, query, true)
	if err != nil {
		observability.GeocodeFailures.Inc()
		return nil, err
	}
	return results, nil
}

// Geocode resolves an address into candidates ranked by provider importance,
// restricted to the operating country.
func (g *Geocoder) Geocode(ctx context.Context, address string) ([]AddressCandidate, error) {
	results, err := g.search(ctx, address, false)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, &GeocodeError{Op: "search"}
	}
	return results, nil
}

func (g *Geocoder) search(ctx context.Context, query string, withDetails bool) ([]AddressCandidate, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", "5")
	q.Set("countrycodes", g.country)
	if withDetails {
		q.Set("addressdetails", "1")
	}

	var raw []nominatimResult
	if err := g.get(ctx, "/search", q, &raw); err != nil {
		return nil, &GeocodeError{Op: "search", Err: err}
	}

	out := make([]AddressCandidate, 0, len(raw))
	for _, r := range raw {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lng, errLng := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		out = append(out, AddressCandidate{
			PlaceID:     r.PlaceID.String(),
			DisplayName: r.DisplayName,
			Coordinate:  types.Coordinate{Lat: lat, Lng: lng},
			PlaceType:   r.Type,
			Importance:  r.Importance,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out, nil
}

// ReverseGeocode resolves a coordinate into a display address. Unlike search,
// failure here is an error the caller must handle (typically by substituting
// the default address).
func (g *Geocoder) ReverseGeocode(ctx context.Context, c types.Coordinate) (*ReverseResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Lng, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	var raw nominatimResult
	if err := g.get(ctx, "/reverse", q, &raw); err != nil {
		return nil, &GeocodeError{Op: "reverse", Err: err}
	}
	if raw.Error != "" || raw.DisplayName == "" {
		return nil, &GeocodeError{Op: "reverse"}
	}

	res := &ReverseResult{DisplayName: raw.DisplayName}
	if raw.Address != nil {
		res.Details = *raw.Address
	}
	return res, nil
}

func (g *Geocoder) get(ctx context.Context, path string, q url.Values, out any) error {
	observability.GeocodeCalls.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	// Nominatim requires a stable identifying header per its usage policy.
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FormatAddress shortens a full display address to its first four components
// for compact rendering.
func FormatAddress(display string) string {
	if display == "" {
		return ""
	}
	parts := strings.Split(display, ",")
	if len(parts) > 4 {
		parts = parts[:4]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ")
}
