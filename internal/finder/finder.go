package finder

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/PrakshaliShah/cta-silent-tracker/internal/cta"
	"github.com/PrakshaliShah/cta-silent-tracker/internal/geo"
)

// Confidence labels for the closest-train classification.
const (
	ConfidenceHigh = "High"
	ConfidenceLow  = "Low"
)

// DefaultConfidenceRadiusMeters is the distance under which the closest
// train is considered High confidence.
const DefaultConfidenceRadiusMeters = 200.0

// RankedTrain is one vehicle record with its computed distance from the caller.
type RankedTrain struct {
	Run            string  `json:"run"`
	Destination    string  `json:"destination"`
	NextStop       string  `json:"next_stop"`
	Latitude       float64 `json:"lat"`
	Longitude      float64 `json:"lon"`
	Heading        string  `json:"heading,omitempty"`
	DistanceMeters float64 `json:"distance_meters"`
	IsGhost        bool    `json:"is_ghost"`
}

// Result is the ranked outcome for one lookup.
type Result struct {
	Found      bool          `json:"found"`
	Closest    *RankedTrain  `json:"closest,omitempty"`
	Confidence string        `json:"confidence,omitempty"`
	Trains     []RankedTrain `json:"trains"`
	Message    string        `json:"message,omitempty"`
}

// Options control ranking policy.
type Options struct {
	// ConfidenceRadiusMeters is the High/Low split distance. Zero or
	// negative uses DefaultConfidenceRadiusMeters.
	ConfidenceRadiusMeters float64

	// IncludeGhosts keeps scheduled placeholders in the ranked list. They
	// are always tagged and never eligible to be the closest train.
	IncludeGhosts bool
}

// Rank computes each train's distance from origin, orders the list ascending
// and selects the closest live train. Malformed coordinates are an error, not
// a skip: a silently dropped train could be exactly the one the caller is
// standing next to.
func Rank(trains []cta.Train, origin geo.Coordinate, opts Options) (Result, error) {
	radius := opts.ConfidenceRadiusMeters
	if radius <= 0 {
		radius = DefaultConfidenceRadiusMeters
	}

	ranked := make([]RankedTrain, 0, len(trains))
	for _, t := range trains {
		lat, err := strconv.ParseFloat(t.Latitude, 64)
		if err != nil {
			return Result{}, fmt.Errorf("train %s has malformed latitude %q: %w", t.Run, t.Latitude, err)
		}
		lon, err := strconv.ParseFloat(t.Longitude, 64)
		if err != nil {
			return Result{}, fmt.Errorf("train %s has malformed longitude %q: %w", t.Run, t.Longitude, err)
		}

		ghost := t.IsGhost()
		if ghost && !opts.IncludeGhosts {
			continue
		}

		dist := geo.Haversine(origin, geo.Coordinate{Lat: lat, Lon: lon})
		ranked = append(ranked, RankedTrain{
			Run:            t.Run,
			Destination:    t.Destination,
			NextStop:       t.NextStation,
			Latitude:       lat,
			Longitude:      lon,
			Heading:        t.Heading,
			DistanceMeters: math.Round(dist*10) / 10,
			IsGhost:        ghost,
		})
	}

	// Stable keeps upstream order for equal distances.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceMeters < ranked[j].DistanceMeters
	})

	result := Result{Trains: ranked}
	for i := range ranked {
		if ranked[i].IsGhost {
			continue
		}
		closest := ranked[i]
		result.Found = true
		result.Closest = &closest
		if closest.DistanceMeters < radius {
			result.Confidence = ConfidenceHigh
		} else {
			result.Confidence = ConfidenceLow
		}
		break
	}

	if !result.Found {
		if len(trains) == 0 {
			result.Message = "No trains are currently reported on this route."
		} else {
			result.Message = "No live trains on this route right now; only scheduled positions were reported."
		}
	}

	return result, nil
}
