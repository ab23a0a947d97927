package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Birthday Card API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the interactive birthday card.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/events/{slug}
	getEvent, _ := r.NewOperationContext(http.MethodGet, "/api/events/{slug}")
	getEvent.SetSummary("Look up event")
	getEvent.SetDescription("Public event details. Never includes the verification age.")
	getEvent.AddRespStructure(EventResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getEvent)

	// POST /api/card/{slug}/session
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/card/{slug}/session")
	postSession.SetSummary("Start recipient access session")
	postSession.SetDescription("Begins the unlock sequence for an event. Returns the access token and the starting stage. A resume token that already reached celebration resumes there.")
	postSession.AddReqStructure(AccessStartRequest{})
	postSession.AddRespStructure(AccessStartResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postSession)

	// GET /api/card/session/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/card/session/state")
	getState.SetSummary("Get access state")
	getState.SetDescription("Current stage, countdown while locked, and the maze view. Requires Bearer token.")
	getState.AddRespStructure(AccessStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/card/session/age
	postAge, _ := r.NewOperationContext(http.MethodPost, "/api/card/session/age")
	postAge.SetSummary("Verify age")
	postAge.SetDescription("Age gate. A wrong guess returns verified=false and the gate stays open.")
	postAge.AddReqStructure(VerifyAgeRequest{})
	postAge.AddRespStructure(VerifyAgeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAge)

	// POST /api/card/session/maze/submit
	postSubmit, _ := r.NewOperationContext(http.MethodPost, "/api/card/session/maze/submit")
	postSubmit.SetSummary("Submit riddle response")
	postSubmit.SetDescription("Runs the unlock protocol against the open photo. Requires Bearer token.")
	postSubmit.AddReqStructure(MazeSubmitRequest{})
	postSubmit.AddRespStructure(MazeSubmitResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSubmit)

	// POST /api/card/session/phrase
	postPhrase, _ := r.NewOperationContext(http.MethodPost, "/api/card/session/phrase")
	postPhrase.SetSummary("Submit ransom phrase")
	postPhrase.AddReqStructure(PhraseRequest{})
	postPhrase.AddRespStructure(PhraseResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postPhrase.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postPhrase)

	// GET /api/card/session/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/card/session/events")
	getEvents.SetSummary("SSE progress stream")
	getEvents.SetDescription("Server-Sent Events stream of stage changes and unlocks. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/countdown
	getCountdown, _ := r.NewOperationContext(http.MethodGet, "/ws/countdown")
	getCountdown.SetSummary("WebSocket countdown stream")
	getCountdown.SetDescription("Streams one countdown frame per second for a locked event. Pass slug as query parameter.")
	getCountdown.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getCountdown)

	// POST /api/organizer/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/organizer/login")
	postLogin.SetSummary("Organizer login")
	postLogin.AddReqStructure(OrganizerLoginRequest{})
	postLogin.AddRespStructure(OrganizerMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/organizer/events
	postEvent, _ := r.NewOperationContext(http.MethodPost, "/api/organizer/events")
	postEvent.SetSummary("Create event")
	postEvent.SetDescription("Creates a birthday card event. Requires organizer session cookie.")
	postEvent.AddReqStructure(CreateEventRequest{})
	postEvent.AddRespStructure(EventResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postEvent)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(spec)
	}
}
