package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/techsbuilds/pgsphere-customer/client/meal"
	"github.com/techsbuilds/pgsphere-customer/devmode"
	"github.com/techsbuilds/pgsphere-customer/devmode/internal/respond"
)

func decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		respond.WriteBadRequest(w, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// -----------------------------------------------------------------------------
// Auth
// -----------------------------------------------------------------------------

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserType != "Customer" {
		respond.WriteBadRequest(w, "Invalid user type")
		return
	}
	if !strings.EqualFold(req.Email, devmode.Email) || req.Password != devmode.Password {
		respond.WriteUnauthorized(w, "Invalid email or password")
		return
	}
	token, err := s.tokens.issue(devmode.UserID)
	if err != nil {
		log.Error().Err(err).Msg("issue token")
		respond.WriteFail(w, http.StatusInternalServerError, "Login failed")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: token, Path: "/", HttpOnly: true, Expires: s.store.now().Add(s.tokens.ttl)})
	respond.WriteData(w, sessionData{Token: token, UserID: devmode.UserID, UserType: req.UserType, PGCode: devmode.PGCode})
}

func (s *Server) verifySignup(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["token"] != InviteToken {
		respond.WriteBadRequest(w, "Invalid or expired token")
		return
	}
	respond.WriteData(w, s.store.invite())
}

// -----------------------------------------------------------------------------
// Meals
// -----------------------------------------------------------------------------

func (s *Server) getMealConfig(w http.ResponseWriter, _ *http.Request) {
	cfg := s.store.mealConfig()
	if cfg == nil {
		respond.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": nil})
		return
	}
	respond.WriteData(w, cfg)
}

func (s *Server) getMealsByDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.ParseInLocation(meal.WireDateLayout, mux.Vars(r)["date"], s.store.now().Location())
	if err != nil {
		respond.WriteBadRequest(w, "Invalid date. Use DD-MM-YYYY")
		return
	}
	respond.WriteJSON(w, http.StatusOK, mealsResponse{Success: true, Meal: []rawDay{s.store.day(date, userFrom(r.Context()))}})
}

func (s *Server) cancelMeal(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := meal.FromWireDate(req.Date)
	if err != nil {
		respond.WriteBadRequest(w, "Invalid date. Use DD-MM-YYYY")
		return
	}
	t, err := meal.ParseType(req.Type)
	if err != nil {
		respond.WriteBadRequest(w, "Invalid meal type")
		return
	}
	if err := s.store.setCancelled(date, t, true); err != nil {
		s.writeMealError(w, t, err)
		return
	}
	log.Info().Str("date", date).Str("type", t.String()).Msg("meal cancelled")
	respond.WriteMessage(w, t.Title()+" cancelled successfully")
}

func (s *Server) updateSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !decode(w, r, &req) {
		return
	}
	if _, err := meal.ParseDate(req.Date, s.store.now().Location()); err != nil {
		respond.WriteBadRequest(w, "Invalid date. Use YYYY-MM-DD")
		return
	}
	t, err := mealIDType(req.MealID)
	if err != nil {
		respond.WriteBadRequest(w, "Invalid meal id")
		return
	}
	if err := s.store.setCancelled(req.Date, t, !req.IsSelected); err != nil {
		s.writeMealError(w, t, err)
		return
	}
	respond.WriteMessage(w, "Meal selection updated")
}

func (s *Server) writeMealError(w http.ResponseWriter, t meal.Type, err error) {
	if errors.Is(err, errPastCutoff) {
		respond.WriteBadRequest(w, "Cannot cancel "+t.String()+" - time limit has passed")
		return
	}
	respond.WriteFail(w, http.StatusInternalServerError, "Failed to update meal")
}

// -----------------------------------------------------------------------------
// Tenant
// -----------------------------------------------------------------------------

func (s *Server) dashboard(w http.ResponseWriter, _ *http.Request) {
	respond.WriteData(w, s.store.dashboard())
}

func (s *Server) listUpdates(w http.ResponseWriter, _ *http.Request) {
	respond.WriteData(w, s.store.listUpdates())
}

func (s *Server) listComplaints(w http.ResponseWriter, _ *http.Request) {
	respond.WriteData(w, s.store.listComplaints())
}

func (s *Server) submitComplaint(w http.ResponseWriter, r *http.Request) {
	var req complaintRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Category) == "" {
		respond.WriteBadRequest(w, "Subject, description and category are required")
		return
	}
	c := s.store.addComplaint(userFrom(r.Context()), req)
	respond.WriteJSON(w, http.StatusCreated, respond.Envelope{Success: true, Message: "Complaint submitted successfully", Data: c})
}

func (s *Server) rentList(w http.ResponseWriter, _ *http.Request) {
	respond.WriteData(w, s.store.rentLedger())
}

func (s *Server) getProfile(w http.ResponseWriter, _ *http.Request) {
	respond.WriteData(w, s.store.getProfile())
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" && req.Mobile == "" && req.Email == "" {
		respond.WriteBadRequest(w, "Nothing to update")
		return
	}
	s.store.updateProfile(req)
	respond.WriteMessage(w, "Profile updated successfully")
}
