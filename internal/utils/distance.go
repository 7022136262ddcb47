package utils

import (
	"math"
	"time"
)

const EarthRadiusKM = 6371.0

func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

// EstimateDuration returns the driving time for distanceKM at averageSpeedKMH.
func EstimateDuration(distanceKM, averageSpeedKMH float64) time.Duration {
	if distanceKM <= 0 || averageSpeedKMH <= 0 {
		return 0
	}
	hours := distanceKM / averageSpeedKMH
	return time.Duration(hours * float64(time.Hour)).Round(time.Minute)
}

// ProgressPercent is 100 * (1 - remaining/total), clamped to [0, max].
func ProgressPercent(remainingKM, totalKM float64, max int) int {
	if totalKM <= 0 {
		return 0
	}
	p := int(math.Round(100 * (1 - remainingKM/totalKM)))
	return ClampInt(p, 0, max)
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
