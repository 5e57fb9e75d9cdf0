package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"cineshuffle-server/internal/deps"
	"cineshuffle-server/internal/model"
	"cineshuffle-server/internal/server"
	"cineshuffle-server/internal/shuffle"
	"cineshuffle-server/internal/store"
	"cineshuffle-server/internal/suggest"
	"cineshuffle-server/pkg/cache"
)

type stubSuggester struct {
	out []model.AIResponseMovie
	err error
}

func (s *stubSuggester) Suggest(context.Context, string, string) ([]model.AIResponseMovie, error) {
	return s.out, s.err
}

type countingHydrator struct {
	calls atomic.Int32
}

func (h *countingHydrator) Lookup(context.Context, string, string, string) (*model.Metadata, error) {
	h.calls.Add(1)
	return nil, nil
}

func newTestServer(sg suggest.Suggester) (*server.Server, *store.Store, *shuffle.Engine) {
	return newTestServerWithHydrator(sg, nil)
}

func newTestServerWithHydrator(sg suggest.Suggester, hy suggest.Hydrator) (*server.Server, *store.Store, *shuffle.Engine) {
	st := store.New()
	engine := shuffle.NewEngine(3, time.Millisecond)
	s := server.New(deps.ServerDeps{
		Store:    st,
		Pipeline: suggest.NewPipeline(sg, hy, cache.NewInMemory()),
		Shuffler: engine,
		Cache:    cache.NewInMemory(),
	}, nil)
	return s, st, engine
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(nil)
	r := s.Router()
	w := doJSON(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %s", ct)
	}
}

func TestCreateStandardFolder(t *testing.T) {
	s, st, _ := newTestServer(nil)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/folders", `{"name":"Weekend Watch"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(st.Folders()) != 1 {
		t.Fatalf("expected 1 folder, got %d", len(st.Folders()))
	}
}

func TestCreateFolder_EmptyNameRejected(t *testing.T) {
	s, _, _ := newTestServer(nil)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/folders", `{"name":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateAIFolder_WithoutPromptRejected(t *testing.T) {
	s, _, _ := newTestServer(nil)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/folders", `{"name":"Heists","type":"ai"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

// A collaborator failure must not break folder creation: the folder is
// created, just with no movies referencing it.
func TestCreateAIFolder_SuggesterFailureLeavesFolderEmpty(t *testing.T) {
	s, st, _ := newTestServer(&stubSuggester{err: errors.New("service down")})
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/folders", `{"name":"Heists","type":"ai","ai_prompt":"heist films"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	folders := st.Folders()
	if len(folders) != 1 {
		t.Fatalf("expected 1 folder, got %d", len(folders))
	}
	if got := st.MoviesInFolder(folders[0].ID); len(got) != 0 {
		t.Fatalf("expected empty folder, got %d movies", len(got))
	}
}

func TestCreateAIFolder_PopulatedFromSuggestions(t *testing.T) {
	s, st, _ := newTestServer(&stubSuggester{out: []model.AIResponseMovie{
		{Title: "Heat", Year: "1995", ShortSummary: "crime epic"},
		{Title: "Ronin", Year: "1998", ShortSummary: "chase thriller"},
	}})
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/folders", `{"name":"Heists","type":"ai","ai_prompt":"heist films"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	folders := st.Folders()
	movies := st.MoviesInFolder(folders[0].ID)
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	// Insertion order keeps the batch order in the folder listing.
	if movies[0].Title != "Heat" || movies[1].Title != "Ronin" {
		t.Fatalf("unexpected folder order: %q, %q", movies[0].Title, movies[1].Title)
	}
}

// hydrate:false creates the folder from suggestion data alone.
func TestCreateAIFolder_HydrateDisabledSkipsLookups(t *testing.T) {
	hy := &countingHydrator{}
	s, st, _ := newTestServerWithHydrator(&stubSuggester{out: []model.AIResponseMovie{
		{Title: "Heat", Year: "1995", ShortSummary: "crime epic"},
	}}, hy)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/folders",
		`{"name":"Heists","type":"ai","ai_prompt":"heist films","hydrate":false}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if n := hy.calls.Load(); n != 0 {
		t.Fatalf("expected no lookups with hydrate disabled, got %d", n)
	}
	movies := st.MoviesInFolder(st.Folders()[0].ID)
	if len(movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(movies))
	}
	if movies[0].Overview == nil || *movies[0].Overview != "crime epic" {
		t.Fatalf("expected suggestion summary to be kept, got %+v", movies[0].Overview)
	}
}

// Hydration defaults to on when the request does not say otherwise.
func TestCreateAIFolder_HydrateDefaultsOn(t *testing.T) {
	hy := &countingHydrator{}
	s, _, _ := newTestServerWithHydrator(&stubSuggester{out: []model.AIResponseMovie{
		{Title: "Heat", Year: "1995", ShortSummary: "crime epic"},
	}}, hy)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/folders", `{"name":"Heists","type":"ai","ai_prompt":"heist films"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if n := hy.calls.Load(); n != 1 {
		t.Fatalf("expected 1 lookup, got %d", n)
	}
}

func TestMarkWatchedFlow(t *testing.T) {
	s, st, _ := newTestServer(nil)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/movies", `{"title":"Inception","year":"2010"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var m model.Movie
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode movie: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/movies/"+m.ID+"/watched", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(st.Movies()) != 0 || len(st.History()) != 1 {
		t.Fatalf("expected watch transition, active=%d history=%d", len(st.Movies()), len(st.History()))
	}
}

func TestShuffle_EmptyPool(t *testing.T) {
	s, _, _ := newTestServer(nil)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/shuffle", `{"pool":[]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "empty_pool") {
		t.Fatalf("expected empty_pool code, got %s", w.Body.String())
	}
}

func TestShuffle_EphemeralPoolCommitGoesToHistory(t *testing.T) {
	s, st, engine := newTestServer(nil)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/shuffle", `{"pool":[{"title":"Quick Pick","year":"2001"}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var snap shuffle.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}

	session, err := engine.Get(snap.ID)
	if err != nil {
		t.Fatalf("session lookup: %v", err)
	}
	<-session.Done()

	w = doJSON(t, r, http.MethodPost, "/shuffle/"+snap.ID+"/commit", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(st.History()) != 1 {
		t.Fatalf("expected ephemeral winner in history, got %d entries", len(st.History()))
	}
	if len(st.Movies()) != 0 {
		t.Fatalf("ephemeral pool must not enter the active library")
	}
}

// A mood prompt builds the pool server-side: suggestions become an
// ephemeral pool, so the committed winner lands in history without ever
// touching the active library.
func TestShuffle_PromptPoolCommitGoesToHistory(t *testing.T) {
	s, st, engine := newTestServerWithHydrator(&stubSuggester{out: []model.AIResponseMovie{
		{Title: "Heat", Year: "1995", ShortSummary: "crime epic"},
		{Title: "Ronin", Year: "1998", ShortSummary: "chase thriller"},
	}}, &countingHydrator{})
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/shuffle", `{"prompt":"something tense"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var snap shuffle.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}

	session, err := engine.Get(snap.ID)
	if err != nil {
		t.Fatalf("session lookup: %v", err)
	}
	<-session.Done()

	w = doJSON(t, r, http.MethodPost, "/shuffle/"+snap.ID+"/commit", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(st.History()) != 1 {
		t.Fatalf("expected prompt-pool winner in history, got %d entries", len(st.History()))
	}
	if len(st.Movies()) != 0 {
		t.Fatalf("prompt pool must not enter the active library")
	}
}

// Prompt pools skip metadata hydration entirely.
func TestShuffle_PromptPoolSkipsHydration(t *testing.T) {
	hy := &countingHydrator{}
	s, _, _ := newTestServerWithHydrator(&stubSuggester{out: []model.AIResponseMovie{
		{Title: "Heat", Year: "1995", ShortSummary: "crime epic"},
	}}, hy)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/shuffle", `{"prompt":"something tense"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if n := hy.calls.Load(); n != 0 {
		t.Fatalf("expected no lookups for a prompt pool, got %d", n)
	}
}

func TestShuffle_PromptSuggesterFailureIsEmptyPool(t *testing.T) {
	s, _, _ := newTestServer(&stubSuggester{err: errors.New("service down")})
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/shuffle", `{"prompt":"something tense"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "empty_pool") {
		t.Fatalf("expected empty_pool code, got %s", w.Body.String())
	}
}

func TestShuffle_FolderPoolCommitMovesLibraryMovie(t *testing.T) {
	s, st, engine := newTestServer(nil)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/folders", `{"name":"F1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	fid := st.Folders()[0].ID

	w = doJSON(t, r, http.MethodPost, "/movies", `{"title":"Gattaca","folder_id":"`+fid+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/shuffle", `{"folder_id":"`+fid+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var snap shuffle.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	session, err := engine.Get(snap.ID)
	if err != nil {
		t.Fatalf("session lookup: %v", err)
	}
	<-session.Done()

	w = doJSON(t, r, http.MethodPost, "/shuffle/"+snap.ID+"/commit", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(st.Movies()) != 0 || len(st.History()) != 1 {
		t.Fatalf("expected watch transition, active=%d history=%d", len(st.Movies()), len(st.History()))
	}
}

func TestShuffle_CancelLeavesStoreUntouched(t *testing.T) {
	s, st, _ := newTestServer(nil)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/shuffle", `{"pool":[{"title":"A"},{"title":"B"}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var snap shuffle.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}

	w = doJSON(t, r, http.MethodDelete, "/shuffle/"+snap.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(st.Movies()) != 0 || len(st.History()) != 0 {
		t.Fatalf("cancel must not mutate the store")
	}
}

func TestLanguageSettings(t *testing.T) {
	s, st, _ := newTestServer(nil)
	r := s.Router()

	w := doJSON(t, r, http.MethodPut, "/settings/language", `{"language":"tr"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if st.Language() != model.LangTR {
		t.Fatalf("expected tr, got %s", st.Language())
	}

	w = doJSON(t, r, http.MethodPut, "/settings/language", `{"language":"xx"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	s, st, _ := newTestServer(nil)
	r := s.Router()

	doJSON(t, r, http.MethodPost, "/folders", `{"name":"Doomed"}`)
	fid := st.Folders()[0].ID
	doJSON(t, r, http.MethodPost, "/movies", `{"title":"A","folder_id":"`+fid+`"}`)

	w := doJSON(t, r, http.MethodDelete, "/folders/"+fid, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(st.Folders()) != 0 || len(st.Movies()) != 0 {
		t.Fatalf("expected cascade delete, folders=%d movies=%d", len(st.Folders()), len(st.Movies()))
	}
}
