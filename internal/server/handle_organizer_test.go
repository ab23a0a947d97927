package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func organizerRouter(t *testing.T) *chi.Mux {
	t.Helper()
	store := setupStore(t)

	r := chi.NewRouter()
	r.Post("/api/organizer/login", handleOrganizerLogin(store))
	r.Post("/api/organizer/logout", handleOrganizerLogout(store))
	r.Get("/api/organizer/me", handleOrganizerMe(store))
	r.Route("/api/organizer/events", func(r chi.Router) {
		r.Use(organizerAuthMiddleware(store))
		r.Post("/", handleCreateEvent(store))
		r.Post("/{id}/photos", handleAddPhoto(store))
		r.Post("/{id}/capsules", handleAddCapsule(store))
		r.Get("/{id}/config/{key}", handleConfigGet(store))
		r.Put("/{id}/config/{key}", handleConfigSet(store))
	})
	r.Route("/api/events/{slug}", func(r chi.Router) {
		r.Get("/", handleEventLookup(store))
		r.Get("/photos", handleListPhotos(store))
		r.Get("/wishes", handleListWishes(store))
		r.Post("/wishes", handleAddWish(store))
		r.Get("/capsules", handleListCapsules(store))
	})
	return r
}

func login(t *testing.T, r *chi.Mux) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(OrganizerLoginRequest{Email: "demo@example.com", Password: "demo-password"})
	req := httptest.NewRequest(http.MethodPost, "/api/organizer/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == organizerCookieName {
			return c
		}
	}
	t.Fatal("login: expected a session cookie")
	return nil
}

func TestOrganizerLoginWrongPassword(t *testing.T) {
	r := organizerRouter(t)

	body, _ := json.Marshal(OrganizerLoginRequest{Email: "demo@example.com", Password: "nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/organizer/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestOrganizerMe(t *testing.T) {
	r := organizerRouter(t)
	cookie := login(t, r)

	req := httptest.NewRequest(http.MethodGet, "/api/organizer/me", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp OrganizerMeResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Email != "demo@example.com" {
		t.Errorf("expected demo email, got %q", resp.Email)
	}
}

func TestCreateEventRequiresAuth(t *testing.T) {
	r := organizerRouter(t)

	body, _ := json.Marshal(CreateEventRequest{Slug: "ana-25", BirthdayPersonName: "Ana", BirthdayPersonAge: 25})
	req := httptest.NewRequest(http.MethodPost, "/api/organizer/events/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a cookie, got %d", w.Code)
	}
}

func TestCreateEvent(t *testing.T) {
	r := organizerRouter(t)
	cookie := login(t, r)

	tests := []struct {
		name string
		req  CreateEventRequest
		want int
	}{
		{"valid", CreateEventRequest{Slug: "ana-25", BirthdayPersonName: "Ana", BirthdayPersonAge: 25, BirthdayDate: "2027-06-15"}, http.StatusCreated},
		{"bad slug", CreateEventRequest{Slug: "Ana 25!", BirthdayPersonName: "Ana", BirthdayPersonAge: 25}, http.StatusBadRequest},
		{"missing name", CreateEventRequest{Slug: "ana-26", BirthdayPersonAge: 25}, http.StatusBadRequest},
		{"zero age", CreateEventRequest{Slug: "ana-27", BirthdayPersonName: "Ana"}, http.StatusBadRequest},
		{"bad date", CreateEventRequest{Slug: "ana-28", BirthdayPersonName: "Ana", BirthdayPersonAge: 25, BirthdayDate: "June 15"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.req)
			req := httptest.NewRequest(http.MethodPost, "/api/organizer/events/", bytes.NewReader(body))
			req.AddCookie(cookie)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}

	// The created event is publicly visible, without the age.
	req := httptest.NewRequest(http.MethodGet, "/api/events/ana-25/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("lookup: expected 200, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte(`"birthdayPersonAge"`)) {
		t.Error("public event lookup leaked the age")
	}
	var ev EventResponse
	json.NewDecoder(w.Body).Decode(&ev)
	if ev.ThemeColor != "#ff69b4" {
		t.Errorf("expected default theme color, got %q", ev.ThemeColor)
	}
}

func TestAddPhotoValidation(t *testing.T) {
	r := organizerRouter(t)
	cookie := login(t, r)

	// Resolve the demo event's id via its config alias surface.
	eventID := demoEventID(t, r, cookie)

	tests := []struct {
		name string
		req  AddPhotoRequest
		want int
	}{
		{"valid text riddle", AddPhotoRequest{Src: "photos/x.jpg", Glitched: true, RiddleType: "text", RiddleQuestion: "Q?", RiddleAnswer: "A"}, http.StatusCreated},
		{"no riddle", AddPhotoRequest{Src: "photos/y.jpg", Glitched: true}, http.StatusCreated},
		{"missing src", AddPhotoRequest{Glitched: true}, http.StatusBadRequest},
		{"bad riddle type", AddPhotoRequest{Src: "photos/z.jpg", RiddleType: "puzzle", RiddleQuestion: "Q?", RiddleAnswer: "A"}, http.StatusBadRequest},
		{"riddle without answer", AddPhotoRequest{Src: "photos/z.jpg", RiddleType: "text", RiddleQuestion: "Q?"}, http.StatusBadRequest},
		{"mcq answer not an option", AddPhotoRequest{Src: "photos/z.jpg", RiddleType: "mcq", RiddleQuestion: "Q?", RiddleAnswer: "C", RiddleOptions: []string{"A", "B"}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.req)
			req := httptest.NewRequest(http.MethodPost, "/api/organizer/events/"+eventID+"/photos", bytes.NewReader(body))
			req.AddCookie(cookie)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

// demoEventID looks up the seeded event through the public surface.
func demoEventID(t *testing.T, r *chi.Mux, cookie *http.Cookie) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/events/maria-30/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("demo lookup: expected 200, got %d", w.Code)
	}
	var ev EventResponse
	json.NewDecoder(w.Body).Decode(&ev)
	return ev.ID
}

func TestConfigAliases(t *testing.T) {
	r := organizerRouter(t)
	cookie := login(t, r)
	eventID := demoEventID(t, r, cookie)

	// The person keys read through to the event record.
	req := httptest.NewRequest(http.MethodGet, "/api/organizer/events/"+eventID+"/config/birthday_person_age", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("config get: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp ConfigValueResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Value != "30" {
		t.Errorf("expected age 30 via config, got %q", resp.Value)
	}

	// Updating the alias updates the event itself.
	body, _ := json.Marshal(ConfigSetRequest{Value: "31"})
	req = httptest.NewRequest(http.MethodPut, "/api/organizer/events/"+eventID+"/config/birthday_person_age", bytes.NewReader(body))
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("config set: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/organizer/events/"+eventID+"/config/birthday_person_age", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Value != "31" {
		t.Errorf("expected age 31 after update, got %q", resp.Value)
	}

	// Plain keys round-trip through the key/value table.
	body, _ = json.Marshal(ConfigSetRequest{Value: "dark"})
	req = httptest.NewRequest(http.MethodPut, "/api/organizer/events/"+eventID+"/config/ui_mode", bytes.NewReader(body))
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("plain set: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/organizer/events/"+eventID+"/config/ui_mode", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Value != "dark" {
		t.Errorf("expected ui_mode dark, got %q", resp.Value)
	}
}

func TestWishes(t *testing.T) {
	r := organizerRouter(t)

	body, _ := json.Marshal(WishRequest{AuthorName: "Ana", Message: "Happy birthday!"})
	req := httptest.NewRequest(http.MethodPost, "/api/events/maria-30/wishes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("add wish: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/events/maria-30/wishes", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var wishes []WishResponse
	json.NewDecoder(w.Body).Decode(&wishes)
	// Two seeded wishes plus the new one.
	if len(wishes) != 3 {
		t.Fatalf("expected 3 wishes, got %d", len(wishes))
	}
}

func TestWishValidation(t *testing.T) {
	r := organizerRouter(t)

	body, _ := json.Marshal(WishRequest{AuthorName: "  ", Message: "hi"})
	req := httptest.NewRequest(http.MethodPost, "/api/events/maria-30/wishes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank author, got %d", w.Code)
	}
}

func TestCapsuleListHidesFutureMessages(t *testing.T) {
	r := organizerRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/events/maria-30/capsules", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var capsules []CapsuleResponse
	json.NewDecoder(w.Body).Decode(&capsules)
	if len(capsules) != 2 {
		t.Fatalf("expected 2 capsules, got %d", len(capsules))
	}

	for _, c := range capsules {
		if c.Hour == 0 && (!c.Unlocked || c.Message == "") {
			t.Error("midnight capsule should always be unlocked")
		}
		if !c.Unlocked && c.Message != "" {
			t.Errorf("capsule for hour %d leaked its message", c.Hour)
		}
	}
}

func TestListPhotosLockedShape(t *testing.T) {
	r := organizerRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/events/maria-30/photos", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte(`"Paris"`)) {
		t.Error("public photo list leaked a riddle answer")
	}

	var photos []MazePhotoView
	json.NewDecoder(w.Body).Decode(&photos)
	if len(photos) != 3 {
		t.Fatalf("expected 3 photos, got %d", len(photos))
	}
	for _, p := range photos {
		if p.Unlocked || p.Src != "" {
			t.Errorf("photo %s exposed content in the public list", p.ID)
		}
	}
}
