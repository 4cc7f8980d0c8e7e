package cta

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const positionsFixture = `{
	"ctatt": {
		"tmst": "2024-03-14T08:30:12",
		"errCd": "0",
		"errNm": null,
		"route": [{
			"@name": "red",
			"train": [
				{"rn": "803", "destNm": "Howard", "nextStaNm": "Monroe", "lat": "41.87985", "lon": "-87.62785", "heading": "358", "isApp": "0", "isDly": "0", "isSch": "0"},
				{"rn": "811", "destNm": "95th/Dan Ryan", "nextStaNm": "Harrison", "lat": "41.87405", "lon": "-87.62773", "heading": "181", "isApp": "1", "isDly": "0", "isSch": "1"}
			]
		}]
	}
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, "test-key", 5*time.Second), srv
}

func TestPositions(t *testing.T) {
	var gotQuery map[string]string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"key":        r.URL.Query().Get("key"),
			"rt":         r.URL.Query().Get("rt"),
			"outputType": r.URL.Query().Get("outputType"),
		}
		w.Write([]byte(positionsFixture))
	})
	defer srv.Close()

	trains, err := client.Positions(context.Background(), "red")
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}

	if gotQuery["key"] != "test-key" || gotQuery["rt"] != "red" || gotQuery["outputType"] != "JSON" {
		t.Errorf("unexpected query parameters: %v", gotQuery)
	}

	if len(trains) != 2 {
		t.Fatalf("expected 2 trains, got %d", len(trains))
	}
	if trains[0].Run != "803" || trains[0].Destination != "Howard" || trains[0].NextStation != "Monroe" {
		t.Errorf("unexpected first train: %+v", trains[0])
	}
	if trains[0].IsGhost() {
		t.Error("train 803 should not be a ghost")
	}
	if !trains[1].IsGhost() {
		t.Error("train 811 should be a ghost (isSch=1)")
	}
}

func TestPositionsSingleTrainObject(t *testing.T) {
	// The feed returns a bare object instead of an array when a route has
	// exactly one train.
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ctatt": {"errCd": "0", "errNm": null, "route": [{"@name": "y",
			"train": {"rn": "501", "destNm": "Skokie", "nextStaNm": "Oakton", "lat": "42.02268", "lon": "-87.74460", "heading": "33", "isApp": "0", "isDly": "0", "isSch": "0"}}]}}`))
	})
	defer srv.Close()

	trains, err := client.Positions(context.Background(), "y")
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if len(trains) != 1 || trains[0].Run != "501" {
		t.Fatalf("expected single train 501, got %+v", trains)
	}
}

func TestPositionsAPIError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ctatt": {"errCd": "101", "errNm": "Invalid API access key"}}`))
	})
	defer srv.Close()

	_, err := client.Positions(context.Background(), "red")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Name != "Invalid API access key" {
		t.Errorf("unexpected error name: %q", apiErr.Name)
	}
}

func TestPositionsNoRouteData(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ctatt": {"errCd": "0", "errNm": null}}`))
	})
	defer srv.Close()

	_, err := client.Positions(context.Background(), "red")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestPositionsServerError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := client.Positions(context.Background(), "red")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) || errors.Is(err, ErrNoData) {
		t.Errorf("non-200 should be a plain network error, got %v", err)
	}
}

func TestPositionsUnreachable(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // closed before use

	_, err := client.Positions(context.Background(), "red")
	if err == nil {
		t.Fatal("expected error when feed is unreachable")
	}
}
