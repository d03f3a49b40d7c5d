package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses. Error holds the
// machine-readable code (e.g. "GameNotJoinable").
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Werewolves API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Session engine for the werewolves party game. " +
		"Authenticated routes use HTTP Basic auth: player id as username, login token as password. " +
		"Clients must poll game status frequently; polling is what advances the game clock.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// POST /api/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/login")
	postLogin.SetSummary("Create a player")
	postLogin.SetDescription("Creates a new player. The returned token is the auth secret and is sent exactly once.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(LoginResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postLogin)

	// GET /api/status
	getStatus, _ := r.NewOperationContext(http.MethodGet, "/api/status")
	getStatus.SetSummary("Server status")
	getStatus.SetDescription("Returns the number of players and games currently registered.")
	getStatus.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStatus)

	// GET /api/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	listGames.SetSummary("List games")
	listGames.AddRespStructure(ListGamesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	listGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listGames)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Opens a new game lobby owned by the caller, who joins it immediately.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(CreateGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createGame)

	// GET /api/games/{gameID}
	gameStatus, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	gameStatus.SetSummary("Game status")
	gameStatus.SetDescription("Ticks the phase machine and returns the public game view. Clients poll this to drive the game forward.")
	gameStatus.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	gameStatus.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(gameStatus)

	// POST /api/games/{gameID}/join
	joinGame, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/join")
	joinGame.SetSummary("Join game")
	joinGame.SetDescription("Joins a lobby that has not started yet.")
	joinGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	joinGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	joinGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(joinGame)

	// POST /api/games/{gameID}/leave
	leaveGame, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/leave")
	leaveGame.SetSummary("Leave game")
	leaveGame.SetDescription("Leaves a lobby before it starts. Membership is frozen once the game is running.")
	leaveGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	leaveGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	leaveGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(leaveGame)

	// POST /api/games/{gameID}/start
	startGame, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/start")
	startGame.SetSummary("Start game")
	startGame.SetDescription("Deals cards and opens the mayor election. Owner only; needs at least two players.")
	startGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	startGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	startGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(startGame)

	// POST /api/games/{gameID}/select
	selectPlayers, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/select")
	selectPlayers.SetSummary("Select players")
	selectPlayers.SetDescription("Casts the caller's vote for the current phase: day vote, werewolf prey, stealer mark or cupid's lovers.")
	selectPlayers.AddReqStructure(SelectRequest{})
	selectPlayers.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	selectPlayers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(selectPlayers)

	// POST /api/games/{gameID}/sorceress
	sorceress, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/sorceress")
	sorceress.SetSummary("Sorceress potion")
	sorceress.SetDescription("Spends the heal potion on this night's victim or the kill potion on a living player. Each potion works once per game.")
	sorceress.AddReqStructure(SorceressRequest{})
	sorceress.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	sorceress.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(sorceress)

	// GET /api/players/{playerID}
	playerStatus, _ := r.NewOperationContext(http.MethodGet, "/api/players/{playerID}")
	playerStatus.SetSummary("Player status")
	playerStatus.SetDescription("Public profile of a player. Asking about yourself adds cards, love pairings and current game.")
	playerStatus.AddRespStructure(PlayerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	playerStatus.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(playerStatus)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
