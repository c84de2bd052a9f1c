package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"BassTab/config"
	"BassTab/model"

	"github.com/gorilla/mux"
)

type stubPairRepo struct {
	pairs map[string]*model.Pair
	err   error
}

func (r *stubPairRepo) GetBySlug(ctx context.Context, slug string) (*model.Pair, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.pairs[slug], nil
}

func (r *stubPairRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	_, ok := r.pairs[slug]
	return ok, r.err
}

func (r *stubPairRepo) Upsert(ctx context.Context, pair *model.Pair) error { return r.err }
func (r *stubPairRepo) Delete(ctx context.Context, slug string) error      { return r.err }

func (r *stubPairRepo) All(ctx context.Context) ([]*model.Pair, error) {
	out := make([]*model.Pair, 0, len(r.pairs))
	for _, p := range r.pairs {
		out = append(out, p)
	}
	return out, r.err
}

type stubIndexRepo struct {
	slugs []string
	err   error
}

func (r *stubIndexRepo) ListSlugs() ([]string, error) {
	return r.slugs, r.err
}

func (r *stubIndexRepo) CountPairs() (int64, error) {
	return int64(len(r.slugs)), r.err
}

func storedPair(slug string) *model.Pair {
	return model.PairFromPayload(slug, &model.PagePayload{
		Track: model.Track{
			Title: "Juicy", Artist: "The Notorious B.I.G.", Year: 1994,
			YoutubeID: "_JZom_gVfuw",
		},
		Original: model.Track{
			Title: "Juicy Fruit", Artist: "Mtume", Year: 1983,
			YoutubeID: "vG0ZvhD6YKI",
		},
		SampleMap: model.SampleMap{
			IsBassSample: true, SampleType: model.SampleDirect,
			TrackStartSec: 12.0, OriginalStartSec: 0.0,
		},
		Tab: model.Tab{
			Tuning: model.TuningEADG, Difficulty: 2,
			TabText: "A|--5-5--3-3--1-1-|",
			Bars: []model.BarMarker{
				{Bar: 1, StartSec: 0.0},
				{Bar: 2, StartSec: 4.1},
			},
		},
	})
}

func testHandler(pairRepo *stubPairRepo, indexRepo *stubIndexRepo) *APIHandler {
	return NewAPIHandler(pairRepo, indexRepo, &config.Config{APIVersion: "v1"})
}

func getPair(h *APIHandler, slug string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/pairs/"+url.PathEscape(slug), nil)
	req = mux.SetURLVars(req, map[string]string{"slug": slug})
	rr := httptest.NewRecorder()
	h.GetPairHandler(rr, req)
	return rr
}

func TestGetPairHandlerFound(t *testing.T) {
	h := testHandler(
		&stubPairRepo{pairs: map[string]*model.Pair{"notorious-big-juicy": storedPair("notorious-big-juicy")}},
		&stubIndexRepo{},
	)

	rr := getPair(h, "notorious-big-juicy")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var payload model.PagePayload
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not a payload: %v", err)
	}
	if payload.Track.Title != "Juicy" || payload.Original.Artist != "Mtume" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if len(payload.Tab.Bars) != 2 {
		t.Fatalf("payload has %d bars, want 2", len(payload.Tab.Bars))
	}
}

func TestGetPairHandlerNotFound(t *testing.T) {
	h := testHandler(&stubPairRepo{pairs: map[string]*model.Pair{}}, &stubIndexRepo{})

	rr := getPair(h, "no-such-pair")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestGetPairHandlerRejectsBadSlug(t *testing.T) {
	h := testHandler(&stubPairRepo{}, &stubIndexRepo{})

	for _, slug := range []string{"UPPER", "has space", "dot.dot"} {
		rr := getPair(h, slug)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("slug %q: status = %d, want 422", slug, rr.Code)
		}
	}
}

func TestGetPairHandlerCorruptStoredRecord(t *testing.T) {
	// A record that round-trips from storage but fails payload validation
	// must surface as a server error, not leak to the client as 200.
	bad := storedPair("bad-pair")
	bad.TrackYoutubeID = "corrupted"

	h := testHandler(
		&stubPairRepo{pairs: map[string]*model.Pair{"bad-pair": bad}},
		&stubIndexRepo{},
	)

	rr := getPair(h, "bad-pair")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestGetPairHandlerRepositoryFailure(t *testing.T) {
	h := testHandler(&stubPairRepo{err: fmt.Errorf("connection refused")}, &stubIndexRepo{})

	rr := getPair(h, "notorious-big-juicy")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestListPairsHandler(t *testing.T) {
	h := testHandler(&stubPairRepo{}, &stubIndexRepo{
		slugs: []string{"2pac-california-love", "notorious-big-juicy"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/pairs", nil)
	rr := httptest.NewRecorder()
	h.ListPairsHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var slugs []string
	if err := json.Unmarshal(rr.Body.Bytes(), &slugs); err != nil {
		t.Fatalf("response is not a slug list: %v", err)
	}
	if len(slugs) != 2 || slugs[0] != "2pac-california-love" {
		t.Fatalf("slugs = %v", slugs)
	}
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := testHandler(&stubPairRepo{}, &stubIndexRepo{slugs: []string{"a", "b"}})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		h.HealthHandler(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if body["status"] != "ok" || body["pairs"] != float64(2) {
			t.Fatalf("body = %v", body)
		}
	})

	t.Run("store down", func(t *testing.T) {
		h := testHandler(&stubPairRepo{}, &stubIndexRepo{err: fmt.Errorf("no connection")})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		h.HealthHandler(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rr.Code)
		}
	})
}
