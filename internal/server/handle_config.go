package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type ConfigValueResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type ConfigSetRequest struct {
	Value string `json:"value"`
}

// Per-event key/value settings. The event row is canonical for the two
// well-known person keys: they are read-through aliases and a PUT on them
// updates the event itself, so the two views cannot diverge.

func handleConfigGet(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "id")
		key := chi.URLParam(r, "key")

		switch key {
		case configKeyAge, configKeyName:
			ev, err := store.EventByID(r.Context(), eventID)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			value := ev.BirthdayPersonName
			if key == configKeyAge {
				value = strconv.Itoa(ev.BirthdayPersonAge)
			}
			writeJSON(w, http.StatusOK, ConfigValueResponse{Key: key, Value: value})
			return
		}

		value, err := store.ConfigGet(r.Context(), eventID, key)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "config key not found")
			return
		}
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ConfigValueResponse{Key: key, Value: value})
	}
}

func handleConfigSet(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "id")
		key := chi.URLParam(r, "key")

		var req ConfigSetRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Value == "" {
			writeError(w, http.StatusBadRequest, "value is required")
			return
		}

		switch key {
		case configKeyAge, configKeyName:
			ev, err := store.EventByID(r.Context(), eventID)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			name, age := ev.BirthdayPersonName, ev.BirthdayPersonAge
			if key == configKeyAge {
				age, err = strconv.Atoi(req.Value)
				if err != nil || age <= 0 {
					writeError(w, http.StatusBadRequest, "value must be a positive integer")
					return
				}
			} else {
				name = req.Value
			}
			if err := store.UpdateEventPerson(r.Context(), eventID, name, age); err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, ConfigValueResponse{Key: key, Value: req.Value})
			return
		}

		if err := store.ConfigSet(r.Context(), eventID, key, req.Value); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ConfigValueResponse{Key: key, Value: req.Value})
	}
}
