package weather

import (
	"math"
	"strings"
)

const (
	earthRadiusKm = 6371.0
	// nearbyRadiusKm bounds how far a point may be from a known city for offline reverse geocoding.
	nearbyRadiusKm = 30.0
)

var knownPlaces = []Location{
	{Name: "Seoul", Country: "KR", Coordinates: Coordinates{Latitude: 37.5665, Longitude: 126.9780}},
	{Name: "Busan", Country: "KR", Coordinates: Coordinates{Latitude: 35.1796, Longitude: 129.0756}},
	{Name: "Incheon", Country: "KR", Coordinates: Coordinates{Latitude: 37.4563, Longitude: 126.7052}},
	{Name: "Daegu", Country: "KR", Coordinates: Coordinates{Latitude: 35.8714, Longitude: 128.6014}},
	{Name: "Daejeon", Country: "KR", Coordinates: Coordinates{Latitude: 36.3504, Longitude: 127.3845}},
	{Name: "Gwangju", Country: "KR", Coordinates: Coordinates{Latitude: 35.1595, Longitude: 126.8526}},
	{Name: "Jeju", Country: "KR", Coordinates: Coordinates{Latitude: 33.4996, Longitude: 126.5312}},
	{Name: "Tokyo", Country: "JP", Coordinates: Coordinates{Latitude: 35.6762, Longitude: 139.6503}},
	{Name: "Osaka", Country: "JP", Coordinates: Coordinates{Latitude: 34.6937, Longitude: 135.5023}},
	{Name: "Beijing", Country: "CN", Coordinates: Coordinates{Latitude: 39.9042, Longitude: 116.4074}},
	{Name: "Shanghai", Country: "CN", Coordinates: Coordinates{Latitude: 31.2304, Longitude: 121.4737}},
	{Name: "Hong Kong", Country: "HK", Coordinates: Coordinates{Latitude: 22.3193, Longitude: 114.1694}},
	{Name: "Singapore", Country: "SG", Coordinates: Coordinates{Latitude: 1.3521, Longitude: 103.8198}},
	{Name: "Bangkok", Country: "TH", Coordinates: Coordinates{Latitude: 13.7563, Longitude: 100.5018}},
	{Name: "Sydney", Country: "AU", Coordinates: Coordinates{Latitude: -33.8688, Longitude: 151.2093}},
	{Name: "London", Country: "GB", Coordinates: Coordinates{Latitude: 51.5074, Longitude: -0.1278}},
	{Name: "Paris", Country: "FR", Coordinates: Coordinates{Latitude: 48.8566, Longitude: 2.3522}},
	{Name: "Berlin", Country: "DE", Coordinates: Coordinates{Latitude: 52.5200, Longitude: 13.4050}},
	{Name: "New York", Country: "US", Coordinates: Coordinates{Latitude: 40.7128, Longitude: -74.0060}},
	{Name: "Los Angeles", Country: "US", Coordinates: Coordinates{Latitude: 34.0522, Longitude: -118.2437}},
	{Name: "San Francisco", Country: "US", Coordinates: Coordinates{Latitude: 37.7749, Longitude: -122.4194}},
	{Name: "Toronto", Country: "CA", Coordinates: Coordinates{Latitude: 43.6532, Longitude: -79.3832}},
}

// lookupPlace resolves a place name from the offline table.
func lookupPlace(name string) (Location, bool) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return Location{}, false
	}
	// "Seoul, KR" and "seoul" both resolve.
	if idx := strings.Index(target, ","); idx > 0 {
		target = strings.TrimSpace(target[:idx])
	}
	for _, place := range knownPlaces {
		if strings.ToLower(place.Name) == target {
			return place, true
		}
	}
	return Location{}, false
}

// nearestPlace finds the closest known city within nearbyRadiusKm.
func nearestPlace(point Coordinates) (Location, bool) {
	best := Location{}
	bestDist := math.MaxFloat64
	for _, place := range knownPlaces {
		if d := distanceKm(point, place.Coordinates); d < bestDist {
			best, bestDist = place, d
		}
	}
	if bestDist > nearbyRadiusKm {
		return Location{}, false
	}
	return best, true
}

func distanceKm(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
