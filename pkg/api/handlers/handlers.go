package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cbodonnell/monstermaker/pkg/api/middleware"
	"github.com/cbodonnell/monstermaker/pkg/log"
	"github.com/cbodonnell/monstermaker/pkg/repositories"
	"github.com/cbodonnell/monstermaker/pkg/repositories/models"
	"github.com/gorilla/mux"
)

// DeleteMessage is the response body for a delete. It is returned
// whether or not a monster actually matched.
type DeleteMessage struct {
	Message string `json:"message"`
}

func HandleListMonsters(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := r.Context().Value(middleware.IdentityContextKey).(*models.Identity)
		if !ok {
			log.Error("failed to get identity from context")
			http.Error(w, "Failed to get identity from context", http.StatusInternalServerError)
			return
		}

		monsters, err := repository.ListMonsters(r.Context(), caller.ID)
		if err != nil {
			log.Error("failed to list monsters: %v", err)
			http.Error(w, "Failed to list monsters", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(monsters); err != nil {
			log.Error("failed to encode monsters: %v", err)
			http.Error(w, "Failed to encode monsters", http.StatusInternalServerError)
			return
		}
	}
}

func HandleGetMonster(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := r.Context().Value(middleware.IdentityContextKey).(*models.Identity)
		if !ok {
			log.Error("failed to get identity from context")
			http.Error(w, "Failed to get identity from context", http.StatusInternalServerError)
			return
		}
		monsterID := mux.Vars(r)["monster_id"]

		monster, err := repository.GetMonster(r.Context(), caller.ID, monsterID)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Monster not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get monster: %v", err)
			http.Error(w, "Failed to get monster", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(monster); err != nil {
			log.Error("failed to encode monster: %v", err)
			http.Error(w, "Failed to encode monster", http.StatusInternalServerError)
			return
		}
	}
}

func HandleCreateMonster(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := r.Context().Value(middleware.IdentityContextKey).(*models.Identity)
		if !ok {
			log.Error("failed to get identity from context")
			http.Error(w, "Failed to get identity from context", http.StatusInternalServerError)
			return
		}

		monster := &models.Monster{}
		if err := json.NewDecoder(r.Body).Decode(monster); err != nil {
			http.Error(w, "Failed to decode monster", http.StatusBadRequest)
			return
		}

		if monster.Name == "" {
			http.Error(w, "Name is required", http.StatusBadRequest)
			return
		}

		// the owner comes from the validated identity, never the body
		monster, err := repository.CreateMonster(r.Context(), caller.ID, monster)
		if err != nil {
			log.Error("failed to create monster: %v", err)
			http.Error(w, "Failed to create monster", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(monster); err != nil {
			log.Error("failed to encode monster: %v", err)
			http.Error(w, "Failed to encode monster", http.StatusInternalServerError)
			return
		}
	}
}

func HandleUpdateMonster(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := r.Context().Value(middleware.IdentityContextKey).(*models.Identity)
		if !ok {
			log.Error("failed to get identity from context")
			http.Error(w, "Failed to get identity from context", http.StatusInternalServerError)
			return
		}
		monsterID := mux.Vars(r)["monster_id"]

		patch := &models.MonsterPatch{}
		if err := json.NewDecoder(r.Body).Decode(patch); err != nil {
			http.Error(w, "Failed to decode monster", http.StatusBadRequest)
			return
		}

		monster, err := repository.UpdateMonster(r.Context(), caller.ID, monsterID, patch)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Monster not found", http.StatusNotFound)
				return
			}
			log.Error("failed to update monster: %v", err)
			http.Error(w, "Failed to update monster", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(monster); err != nil {
			log.Error("failed to encode monster: %v", err)
			http.Error(w, "Failed to encode monster", http.StatusInternalServerError)
			return
		}
	}
}

func HandleDeleteMonster(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := r.Context().Value(middleware.IdentityContextKey).(*models.Identity)
		if !ok {
			log.Error("failed to get identity from context")
			http.Error(w, "Failed to get identity from context", http.StatusInternalServerError)
			return
		}
		monsterID := mux.Vars(r)["monster_id"]

		if err := repository.DeleteMonster(r.Context(), caller.ID, monsterID); err != nil {
			log.Error("failed to delete monster: %v", err)
			http.Error(w, "Failed to delete monster", http.StatusInternalServerError)
			return
		}

		// the message does not reveal whether a monster matched
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(DeleteMessage{
			Message: fmt.Sprintf("Deleted monster with id %s", monsterID),
		}); err != nil {
			log.Error("failed to encode message: %v", err)
			http.Error(w, "Failed to encode message", http.StatusInternalServerError)
			return
		}
	}
}
