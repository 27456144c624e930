// Package geocode implements reverse geocoding against the TomTom Search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"guardpost/config"
	"guardpost/internal/domain/entity"
	"guardpost/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultBaseURL     = "https://api.tomtom.com"
	defaultHTTPTimeout = 10 * time.Second

	// POI categories used to find a named building near the fix:
	// office parks, company grounds, and industrial areas.
	buildingCategorySet = "9663,7315,7318,7361"
)

// tomtomGeocoder implements service.Geocoder against TomTom's reverse
// geocoding and nearby search endpoints.
type tomtomGeocoder struct {
	client  *http.Client
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

// GeocoderParams holds dependencies for the geocoder, injected by Fx.
type GeocoderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewTomTomGeocoder is the constructor for tomtomGeocoder.
func NewTomTomGeocoder(params GeocoderParams) (service.Geocoder, error) {
	if params.Config.Geocode == nil || params.Config.Geocode.APIKey == "" {
		return nil, errors.New("geocode api key must be provided")
	}

	baseURL := params.Config.Geocode.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := params.Config.Geocode.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &tomtomGeocoder{
		client:  &http.Client{Timeout: timeout},
		apiKey:  params.Config.Geocode.APIKey,
		baseURL: baseURL,
		logger:  params.Logger,
	}, nil
}

type tomtomAddress struct {
	FreeformAddress         string `json:"freeformAddress"`
	StreetName              string `json:"streetName"`
	BuildingNumber          string `json:"buildingNumber"`
	Municipality            string `json:"municipality"`
	MunicipalitySubdivision string `json:"municipalitySubdivision"`
	LocalName               string `json:"localName"`
	CountrySubdivision      string `json:"countrySubdivision"`
	PostalCode              string `json:"postalCode"`
	Country                 string `json:"country"`
}

type reverseGeocodeResponse struct {
	Addresses []struct {
		Address tomtomAddress `json:"address"`
	} `json:"addresses"`
}

type nearbySearchResponse struct {
	Results []struct {
		POI struct {
			Name string `json:"name"`
		} `json:"poi"`
	} `json:"results"`
}

// ReverseGeocode resolves coordinates into a structured address. The
// nearby-building lookup is best effort; only the reverse geocode itself
// can fail the call.
func (g *tomtomGeocoder) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*entity.Address, error) {
	address, err := g.reverseGeocode(ctx, latitude, longitude)
	if err != nil {
		return nil, err
	}

	result := &entity.Address{
		FormattedAddress: address.FreeformAddress,
		Street:           joinStreet(address.BuildingNumber, address.StreetName),
		City:             firstNonEmpty(address.MunicipalitySubdivision, address.LocalName, address.Municipality),
		State:            address.CountrySubdivision,
		Country:          address.Country,
		PostalCode:       address.PostalCode,
	}

	if name, err := g.nearbyBuilding(ctx, latitude, longitude); err != nil {
		g.logger.DebugContext(ctx, "Nearby building lookup skipped", slog.Any("error", err))
	} else {
		result.BuildingName = name
	}

	return result, nil
}

func (g *tomtomGeocoder) reverseGeocode(ctx context.Context, latitude, longitude float64) (*tomtomAddress, error) {
	endpoint := fmt.Sprintf("%s/search/2/reverseGeocode/%f,%f.json", g.baseURL, latitude, longitude)

	query := url.Values{}
	query.Set("key", g.apiKey)
	query.Set("radius", "100")
	query.Set("limit", "5")

	var decoded reverseGeocodeResponse
	if err := g.getJSON(ctx, endpoint, query, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Addresses) == 0 {
		return nil, errors.New("no address found for coordinates")
	}

	return &decoded.Addresses[0].Address, nil
}

func (g *tomtomGeocoder) nearbyBuilding(ctx context.Context, latitude, longitude float64) (string, error) {
	endpoint := g.baseURL + "/search/2/nearbySearch/.json"

	query := url.Values{}
	query.Set("key", g.apiKey)
	query.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("radius", "50")
	query.Set("limit", "10")
	query.Set("categorySet", buildingCategorySet)
	query.Set("view", "Unified")

	var decoded nearbySearchResponse
	if err := g.getJSON(ctx, endpoint, query, &decoded); err != nil {
		return "", err
	}
	if len(decoded.Results) == 0 {
		return "", errors.New("no nearby buildings")
	}

	return decoded.Results[0].POI.Name, nil
}

func (g *tomtomGeocoder) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "build geocode request")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "call geocode api")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("geocode api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode geocode response")
	}

	return nil
}

func joinStreet(buildingNumber, streetName string) string {
	if streetName == "" {
		return ""
	}
	if buildingNumber == "" {
		return streetName
	}

	return buildingNumber + " " + streetName
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
