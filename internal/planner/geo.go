package planner

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HaversineKm calculates the great-circle distance between two points in kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0 // Earth radius km
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Centroid is a representative point for a named place.
type Centroid struct {
	Lat float64
	Lng float64
}

// The gazetteer resolves coarse stop granularities deterministically:
// cities map directly, states and countries resolve to their capital (or
// best-known hub) city, regions to a conventional center. Coordinates are
// fixed so regeneration with identical inputs yields identical candidates.
var (
	cityCentroids = map[string]Centroid{
		"chicago":       {41.8781, -87.6298},
		"new york":      {40.7128, -74.0060},
		"boston":        {42.3601, -71.0589},
		"washington":    {38.9072, -77.0369},
		"philadelphia":  {39.9526, -75.1652},
		"los angeles":   {34.0522, -118.2437},
		"san francisco": {37.7749, -122.4194},
		"seattle":       {47.6062, -122.3321},
		"houston":       {29.7604, -95.3698},
		"denver":        {39.7392, -104.9903},
		"miami":         {25.7617, -80.1918},
		"atlanta":       {33.7490, -84.3880},
		"minneapolis":   {44.9778, -93.2650},
		"st louis":      {38.6270, -90.1994},
		"detroit":       {42.3314, -83.0458},
		"cleveland":     {41.4993, -81.6944},
		"pittsburgh":    {40.4406, -79.9959},
		"milwaukee":     {43.0389, -87.9065},
		"london":        {51.5074, -0.1278},
		"paris":         {48.8566, 2.3522},
		"amsterdam":     {52.3676, 4.9041},
		"berlin":        {52.5200, 13.4050},
		"madrid":        {40.4168, -3.7038},
		"rome":          {41.9028, 12.4964},
		"vienna":        {48.2082, 16.3738},
		"zagreb":        {45.8150, 15.9819},
	}

	stateCentroids = map[string]Centroid{
		"il": {39.7817, -89.6501}, "illinois": {39.7817, -89.6501},
		"ny": {42.6526, -73.7562}, "new york": {42.6526, -73.7562},
		"ma": {42.3601, -71.0589}, "massachusetts": {42.3601, -71.0589},
		"ca": {38.5816, -121.4944}, "california": {38.5816, -121.4944},
		"tx": {30.2672, -97.7431}, "texas": {30.2672, -97.7431},
		"pa": {40.2732, -76.8867}, "pennsylvania": {40.2732, -76.8867},
		"dc": {38.9072, -77.0369},
		"wa": {47.0379, -122.9007}, "washington": {47.0379, -122.9007},
		"fl": {30.4383, -84.2807}, "florida": {30.4383, -84.2807},
		"oh": {39.9612, -82.9988}, "ohio": {39.9612, -82.9988},
	}

	countryCentroids = map[string]Centroid{
		"us": {38.9072, -77.0369}, "usa": {38.9072, -77.0369}, "united states": {38.9072, -77.0369},
		"uk": {51.5074, -0.1278}, "united kingdom": {51.5074, -0.1278},
		"fr": {48.8566, 2.3522}, "france": {48.8566, 2.3522},
		"de": {52.5200, 13.4050}, "germany": {52.5200, 13.4050},
		"nl": {52.3676, 4.9041}, "netherlands": {52.3676, 4.9041},
		"it": {41.9028, 12.4964}, "italy": {41.9028, 12.4964},
		"es": {40.4168, -3.7038}, "spain": {40.4168, -3.7038},
		"hr": {45.8150, 15.9819}, "croatia": {45.8150, 15.9819},
	}

	regionCentroids = map[string]Centroid{
		"midwest":       {41.8781, -87.6298},
		"northeast":     {40.7128, -74.0060},
		"west coast":    {37.7749, -122.4194},
		"south":         {33.7490, -84.3880},
		"new england":   {42.3601, -71.0589},
		"pacific nw":    {47.6062, -122.3321},
		"western europe": {48.8566, 2.3522},
	}
)

// normalizePlace lowercases, trims and strips diacritics so gazetteer keys
// match user input like "Zürich" or "São Paulo".
func normalizePlace(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return strings.Join(strings.Fields(strings.ReplaceAll(folded, ".", "")), " ")
}

// ResolveCenter resolves a stop to its search center. Explicit coordinates
// win; otherwise the finest named granularity with a gazetteer entry is used
// (city, then state, then country, then region).
func ResolveCenter(stop Stop) (Centroid, bool) {
	if stop.Lat != nil && stop.Lng != nil {
		return Centroid{Lat: *stop.Lat, Lng: *stop.Lng}, true
	}
	if stop.City != "" {
		if c, ok := cityCentroids[normalizePlace(stop.City)]; ok {
			return c, true
		}
	}
	if stop.State != "" {
		if c, ok := stateCentroids[normalizePlace(stop.State)]; ok {
			return c, true
		}
	}
	if stop.Country != "" {
		if c, ok := countryCentroids[normalizePlace(stop.Country)]; ok {
			return c, true
		}
	}
	if stop.Region != "" {
		if c, ok := regionCentroids[normalizePlace(stop.Region)]; ok {
			return c, true
		}
	}
	return Centroid{}, false
}
