package finder

import (
	"math"
	"sort"
	"strconv"
	"testing"

	"github.com/PrakshaliShah/cta-silent-tracker/internal/cta"
	"github.com/PrakshaliShah/cta-silent-tracker/internal/geo"
)

var origin = geo.Coordinate{Lat: 41.8781, Lon: -87.6298}

// metersPerDegreeLat is the haversine length of one degree of latitude.
const metersPerDegreeLat = 6371000 * 3.141592653589793 / 180

// trainAt builds a live or ghost record the given distance due north of origin.
func trainAt(run string, meters float64, ghost bool) cta.Train {
	sch := "0"
	if ghost {
		sch = "1"
	}
	return cta.Train{
		Run:         run,
		Destination: "Howard",
		NextStation: "Monroe",
		Latitude:    strconv.FormatFloat(origin.Lat+meters/metersPerDegreeLat, 'f', -1, 64),
		Longitude:   strconv.FormatFloat(origin.Lon, 'f', -1, 64),
		IsScheduled: sch,
	}
}

func TestRankClosestIgnoresGhosts(t *testing.T) {
	trains := []cta.Train{
		trainAt("101", 150, false),
		trainAt("102", 50, true), // ghost is closer but ineligible
	}

	result, err := Rank(trains, origin, Options{IncludeGhosts: true})
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if !result.Found {
		t.Fatal("expected found=true")
	}
	if result.Closest == nil || result.Closest.Run != "101" {
		t.Fatalf("expected closest run 101, got %+v", result.Closest)
	}
	if result.Confidence != ConfidenceHigh {
		t.Errorf("expected High confidence at 150m, got %q", result.Confidence)
	}
	if len(result.Trains) != 2 {
		t.Fatalf("expected both trains in the list, got %d", len(result.Trains))
	}
	// Ghost still ranks by distance in the full list.
	if result.Trains[0].Run != "102" || !result.Trains[0].IsGhost {
		t.Errorf("expected tagged ghost 102 first in the list, got %+v", result.Trains[0])
	}
}

func TestRankLowConfidenceBeyondRadius(t *testing.T) {
	result, err := Rank([]cta.Train{trainAt("201", 300, false)}, origin, Options{})
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if !result.Found || result.Confidence != ConfidenceLow {
		t.Errorf("expected found with Low confidence at 300m, got found=%v confidence=%q",
			result.Found, result.Confidence)
	}
}

func TestRankConfidenceRadiusOverride(t *testing.T) {
	result, err := Rank([]cta.Train{trainAt("201", 300, false)}, origin,
		Options{ConfidenceRadiusMeters: 500})
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if result.Confidence != ConfidenceHigh {
		t.Errorf("expected High confidence with 500m radius, got %q", result.Confidence)
	}
}

func TestRankOnlyGhosts(t *testing.T) {
	trains := []cta.Train{
		trainAt("301", 80, true),
		trainAt("302", 400, true),
	}

	result, err := Rank(trains, origin, Options{IncludeGhosts: true})
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if result.Found || result.Closest != nil || result.Confidence != "" {
		t.Errorf("expected found=false with no closest, got %+v", result)
	}
	if len(result.Trains) != 2 {
		t.Errorf("ghosts should stay in the list, got %d entries", len(result.Trains))
	}
	if result.Message == "" {
		t.Error("expected an explanatory message")
	}
}

func TestRankExcludeGhosts(t *testing.T) {
	trains := []cta.Train{
		trainAt("301", 80, true),
		trainAt("401", 150, false),
	}

	result, err := Rank(trains, origin, Options{IncludeGhosts: false})
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(result.Trains) != 1 || result.Trains[0].Run != "401" {
		t.Errorf("expected ghosts dropped from the list, got %+v", result.Trains)
	}
}

func TestRankEmptyInput(t *testing.T) {
	result, err := Rank(nil, origin, Options{IncludeGhosts: true})
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if result.Found {
		t.Error("expected found=false for empty input")
	}
	if result.Trains == nil || len(result.Trains) != 0 {
		t.Errorf("expected empty (non-nil) list, got %#v", result.Trains)
	}
	if result.Message == "" {
		t.Error("expected an explanatory message")
	}
}

func TestRankSortedAscending(t *testing.T) {
	trains := []cta.Train{
		trainAt("1", 900, false),
		trainAt("2", 120, false),
		trainAt("3", 4500, true),
		trainAt("4", 40, false),
		trainAt("5", 700, true),
	}

	result, err := Rank(trains, origin, Options{IncludeGhosts: true})
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	sorted := sort.SliceIsSorted(result.Trains, func(i, j int) bool {
		return result.Trains[i].DistanceMeters < result.Trains[j].DistanceMeters
	})
	if !sorted {
		t.Errorf("list not sorted ascending by distance: %+v", result.Trains)
	}
	if result.Closest == nil || result.Closest.Run != "4" {
		t.Errorf("expected closest run 4, got %+v", result.Closest)
	}
}

func TestRankStableTieBreak(t *testing.T) {
	trains := []cta.Train{
		trainAt("first", 250, false),
		trainAt("second", 250, false),
	}

	result, err := Rank(trains, origin, Options{})
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if result.Trains[0].Run != "first" || result.Trains[1].Run != "second" {
		t.Errorf("equal distances must preserve upstream order, got %+v", result.Trains)
	}
}

func TestRankDistanceRounding(t *testing.T) {
	result, err := Rank([]cta.Train{trainAt("r", 150, false)}, origin, Options{})
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	d := result.Closest.DistanceMeters
	if d != math.Round(d*10)/10 {
		t.Errorf("distance %v not rounded to one decimal", d)
	}
	if d < 149.9 || d > 150.1 {
		t.Errorf("distance %v out of expected range around 150m", d)
	}
}

func TestRankMalformedCoordinates(t *testing.T) {
	bad := cta.Train{Run: "666", Latitude: "not-a-number", Longitude: "-87.6298"}

	_, err := Rank([]cta.Train{bad}, origin, Options{})
	if err == nil {
		t.Fatal("expected error for malformed latitude")
	}
}
