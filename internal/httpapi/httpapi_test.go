package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wordcraftio/wordcraft/internal/query"
	"github.com/wordcraftio/wordcraft/internal/wordlist"
	"github.com/wordcraftio/wordcraft/internal/wordnet"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	words, err := wordlist.Load(strings.NewReader("apple\nangle\namble\nample\nankle\naddle"), wordlist.DefaultMaxLen)
	if err != nil {
		t.Fatalf("wordlist.Load() error = %v", err)
	}
	idx := wordlist.BuildIndex(words, wordlist.DefaultMaxLen)

	wn, err := wordnet.Load("../../testdata/wordnet", wordnet.Mmap)
	if err != nil {
		t.Fatalf("wordnet.Load() error = %v", err)
	}
	t.Cleanup(wn.Close)

	return &Server{Index: idx, WN: wn}
}

func doGet(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleMatches_OK(t *testing.T) {
	s := testServer(t)
	rec := doGet(t, s.Routes(), "/v1/matches?pattern=a__le&page=1&page_size=50")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var got query.PageResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 6 {
		t.Errorf("Total = %d, want 6", got.Total)
	}
}

func TestHandleMatches_InvalidPatternIs400(t *testing.T) {
	s := testServer(t)
	rec := doGet(t, s.Routes(), "/v1/matches?pattern=a9c")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", rec.Code, rec.Body.String())
	}
	var got errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Error == "" {
		t.Error("Error = empty, want a message")
	}
}

func TestHandleMatches_NoMatchIs200Empty(t *testing.T) {
	s := testServer(t)
	rec := doGet(t, s.Routes(), "/v1/matches?pattern=zzzzzzzzzz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got query.PageResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Items) != 0 {
		t.Errorf("Items = %v, want empty", got.Items)
	}
}

func TestHandleAnagrams_OK(t *testing.T) {
	s := testServer(t)
	rec := doGet(t, s.Routes(), "/v1/anagrams?letters=elpam&page=1&page_size=50")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
}

func TestHandleDictionary_OK(t *testing.T) {
	s := testServer(t)
	rec := doGet(t, s.Routes(), "/v1/wordnet/dictionary?word=dog")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var got query.DictionaryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Results) != 1 {
		t.Errorf("Results = %+v, want 1", got.Results)
	}
}

func TestHandleRelated_OK(t *testing.T) {
	s := testServer(t)
	rec := doGet(t, s.Routes(), "/v1/wordnet/related?word=dog")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var got query.RelatedResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Synsets) != 1 {
		t.Errorf("Synsets = %+v, want 1", got.Synsets)
	}
}

func TestHandleDictionary_WordnetUnavailableIs503(t *testing.T) {
	s := testServer(t)
	s.WN = nil
	rec := doGet(t, s.Routes(), "/v1/wordnet/dictionary?word=dog")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503, body=%s", rec.Code, rec.Body.String())
	}
}

func TestHandleMatches_MalformedPageIs400(t *testing.T) {
	s := testServer(t)
	rec := doGet(t, s.Routes(), "/v1/matches?pattern=apple&page=notanumber")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
