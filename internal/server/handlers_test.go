package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/moonhowl/werewolves/internal/game"
)

func newTestRouter(t *testing.T) (*chi.Mux, *game.Store) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	store := game.NewStore(logger)

	r := chi.NewRouter()
	addRoutes(r, logger, store)
	return r, store
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, creds *LoginResponse) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if creds != nil {
		req.SetBasicAuth(creds.ID, creds.Token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, name string) *LoginResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/login", LoginRequest{Name: name}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp LoginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login returned no token")
	}
	return &resp
}

func createGame(t *testing.T, r http.Handler, creds *LoginResponse, name string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/games", CreateGameRequest{Name: name}, creds)
	if w.Code != http.StatusOK {
		t.Fatalf("create game: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp CreateGameResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.ID
}

func TestLoginValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/login", LoginRequest{Name: "   "}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", w.Code)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/games", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", w.Code)
	}

	bogus := &LoginResponse{ID: "nobody", Token: "nothing"}
	w = doJSON(t, r, http.MethodGet, "/api/games", nil, bogus)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bogus credentials, got %d", w.Code)
	}
}

func TestCreateJoinStartFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	alice := login(t, r, "Alice")
	bob := login(t, r, "Bob")
	carol := login(t, r, "Carol")

	gameID := createGame(t, r, alice, "Village")

	for _, creds := range []*LoginResponse{bob, carol} {
		w := doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/join", nil, creds)
		if w.Code != http.StatusOK {
			t.Fatalf("join: expected 200, got %d: %s", w.Code, w.Body.String())
		}
	}

	// Only the owner may start.
	w := doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/start", nil, bob)
	if w.Code != http.StatusForbidden {
		t.Fatalf("start by non-owner: expected 403, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/start", nil, alice)
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/games/"+gameID, nil, alice)
	if w.Code != http.StatusOK {
		t.Fatalf("game status: expected 200, got %d", w.Code)
	}
	var status GameResponse
	json.NewDecoder(w.Body).Decode(&status)
	if status.Phase != int(game.PhaseStarted) {
		t.Errorf("phase = %d, want %d", status.Phase, game.PhaseStarted)
	}
	if status.PlayerCount != 3 {
		t.Errorf("player count = %d, want 3", status.PlayerCount)
	}
	if len(status.Cards) != 3 {
		t.Errorf("dealt cards = %d, want 3", len(status.Cards))
	}

	// Joining after the start is rejected.
	dave := login(t, r, "Dave")
	w = doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/join", nil, dave)
	if w.Code != http.StatusConflict {
		t.Fatalf("join after start: expected 409, got %d", w.Code)
	}
	var errResp ErrorResponse
	json.NewDecoder(w.Body).Decode(&errResp)
	if errResp.Error != "GameNotJoinable" {
		t.Errorf("error code = %q, want GameNotJoinable", errResp.Error)
	}
}

func TestGameNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	alice := login(t, r, "Alice")

	w := doJSON(t, r, http.MethodGet, "/api/games/missing", nil, alice)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var errResp ErrorResponse
	json.NewDecoder(w.Body).Decode(&errResp)
	if errResp.Error != "GameNotFound" {
		t.Errorf("error code = %q, want GameNotFound", errResp.Error)
	}
}

func TestSelectRequiresMembership(t *testing.T) {
	r, _ := newTestRouter(t)
	alice := login(t, r, "Alice")
	mallory := login(t, r, "Mallory")

	gameID := createGame(t, r, alice, "Village")

	w := doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/select",
		SelectRequest{Targets: []string{alice.ID}}, mallory)
	if w.Code != http.StatusConflict {
		t.Fatalf("select by outsider: expected 409, got %d: %s", w.Code, w.Body.String())
	}
	var errResp ErrorResponse
	json.NewDecoder(w.Body).Decode(&errResp)
	if errResp.Error != "NotInGame" {
		t.Errorf("error code = %q, want NotInGame", errResp.Error)
	}
}

func TestPlayerStatusPrivacy(t *testing.T) {
	r, _ := newTestRouter(t)
	alice := login(t, r, "Alice")
	bob := login(t, r, "Bob")

	gameID := createGame(t, r, alice, "Village")

	// Alice about herself: private view with the current game.
	w := doJSON(t, r, http.MethodGet, "/api/players/"+alice.ID, nil, alice)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var private PlayerResponse
	json.NewDecoder(w.Body).Decode(&private)
	if private.CurrentGame != gameID {
		t.Errorf("current game = %q, want %q", private.CurrentGame, gameID)
	}

	// Bob about Alice: public view only.
	w = doJSON(t, r, http.MethodGet, "/api/players/"+alice.ID, nil, bob)
	var public PlayerResponse
	json.NewDecoder(w.Body).Decode(&public)
	if public.CurrentGame != "" || public.Cards != nil || public.Love != nil {
		t.Error("public view leaked private fields")
	}
	if public.ID != alice.ID || public.Name != "Alice" {
		t.Errorf("public view = %+v, want Alice's profile", public)
	}

	// The auth secret never appears in any view.
	if bytes.Contains(w.Body.Bytes(), []byte(alice.Token)) {
		t.Error("player view leaked the auth secret")
	}

	w = doJSON(t, r, http.MethodGet, "/api/players/missing", nil, alice)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown player: expected 404, got %d", w.Code)
	}
}

func TestStatusAndHealthAreOpen(t *testing.T) {
	r, _ := newTestRouter(t)
	login(t, r, "Alice")

	w := doJSON(t, r, http.MethodGet, "/api/status", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", w.Code)
	}
	var status StatusResponse
	json.NewDecoder(w.Body).Decode(&status)
	if status.PlayersCount != 1 || status.GamesCount != 0 {
		t.Errorf("status = %+v, want 1 player / 0 games", status)
	}

	w = doJSON(t, r, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", w.Code)
	}
}

func TestGameStatusIsIdempotentWithoutProgress(t *testing.T) {
	r, _ := newTestRouter(t)
	alice := login(t, r, "Alice")
	bob := login(t, r, "Bob")

	gameID := createGame(t, r, alice, "Village")
	doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/join", nil, bob)
	doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/start", nil, alice)

	var first, second GameResponse
	w := doJSON(t, r, http.MethodGet, "/api/games/"+gameID, nil, alice)
	json.NewDecoder(w.Body).Decode(&first)
	w = doJSON(t, r, http.MethodGet, "/api/games/"+gameID, nil, alice)
	json.NewDecoder(w.Body).Decode(&second)

	if first.Phase != second.Phase {
		t.Errorf("phase changed from %d to %d between idle polls", first.Phase, second.Phase)
	}
}

func TestOpenAPISpecServes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/openapi.json", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var spec map[string]any
	if err := json.NewDecoder(w.Body).Decode(&spec); err != nil {
		t.Fatalf("spec is not valid JSON: %v", err)
	}
	if _, ok := spec["paths"]; !ok {
		t.Error("spec has no paths")
	}
}
