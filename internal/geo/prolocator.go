package geo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// NearbyPro is a professional returned from a Redis GEO query.
type NearbyPro struct {
	ID     int
	DistKM float64
	Lon    float64
	Lat    float64
}

// ProLocator keeps professionals' last known coordinates in Redis GEO sets,
// one set per city, and answers radius queries used as the geographic
// pre-filter before scoring.
type ProLocator struct {
	rdb *redis.Client
}

func NewProLocator(rdb *redis.Client) *ProLocator {
	return &ProLocator{rdb: rdb}
}

func redisKey(city string) string {
	return fmt.Sprintf("pros:%s", strings.ToLower(strings.TrimSpace(city)))
}

func memberName(proID int) string {
	return fmt.Sprintf("pro:%d", proID)
}

func parseProMember(member string) (int, error) {
	parts := strings.Split(member, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid member %q", member)
	}
	return strconv.Atoi(parts[1])
}

// UpdatePro stores a professional's coordinates.
func (l *ProLocator) UpdatePro(ctx context.Context, proID int, lon, lat float64, city string) error {
	if strings.TrimSpace(city) == "" {
		return fmt.Errorf("UpdatePro: empty city")
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return fmt.Errorf("UpdatePro: invalid coords lon=%.8f lat=%.8f", lon, lat)
	}
	return l.rdb.GeoAdd(ctx, redisKey(city), &redis.GeoLocation{
		Name:      memberName(proID),
		Longitude: lon,
		Latitude:  lat,
	}).Err()
}

// RemovePro drops a professional from the city's set.
func (l *ProLocator) RemovePro(ctx context.Context, proID int, city string) error {
	return l.rdb.ZRem(ctx, redisKey(city), memberName(proID)).Err()
}

// Nearby returns professionals within radiusKM sorted by distance ascending.
func (l *ProLocator) Nearby(ctx context.Context, lon, lat, radiusKM float64, limit int, city string) ([]NearbyPro, error) {
	res, err := l.rdb.GeoSearchLocation(ctx, redisKey(city), &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  lon,
			Latitude:   lat,
			Radius:     radiusKM,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	pros := make([]NearbyPro, 0, len(res))
	for _, item := range res {
		id, err := parseProMember(item.Name)
		if err != nil {
			continue
		}
		pros = append(pros, NearbyPro{ID: id, DistKM: item.Dist, Lon: item.Longitude, Lat: item.Latitude})
	}
	return pros, nil
}
