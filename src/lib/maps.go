package lib

import (
	"context"
	"log"
	"os"

	"googlemaps.github.io/maps"
)

var mapsClient *maps.Client

func GetMapsClient() (*maps.Client, error) {
	if mapsClient != nil {
		return mapsClient, nil
	}
	cli, err := maps.NewClient(maps.WithAPIKey(os.Getenv("GAPI_API_KEY")))
	if err != nil {
		return nil, err
	}
	mapsClient = cli
	return cli, nil
}

// NewMapsClient Replace maps instance with custom client implementation
func NewMapsClient(c *maps.Client) {
	mapsClient = c
}

// GeocodeAddress resolves an address to a lat/lng pair. Returns nils when
// the address cannot be resolved; callers store the address either way.
func GeocodeAddress(ctx context.Context, address string) (*float64, *float64) {
	if address == "" {
		return nil, nil
	}
	cli, err := GetMapsClient()
	if err != nil {
		log.Printf("[maps] Error initializing client: %s\n", err.Error())
		return nil, nil
	}
	results, err := cli.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		log.Printf("[maps] Error geocoding %q: %s\n", address, err.Error())
		return nil, nil
	}
	if len(results) == 0 {
		return nil, nil
	}
	loc := results[0].Geometry.Location
	return &loc.Lat, &loc.Lng
}
