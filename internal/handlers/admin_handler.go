package handlers

import (
	"encoding/json"
	"net/http"

	"catalog-admin/internal/models"
	"catalog-admin/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type AdminHandler struct {
	adminService *services.AdminService
	logger       zerolog.Logger
}

func NewAdminHandler(adminService *services.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	if limit == 0 {
		limit = 10
	}
	page := queryInt(r, "page", 1)

	admins, total, err := h.adminService.List(r.Context(), limit, page)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithList(w, "Admins found", admins, total)
}

func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	resp, err := h.adminService.Register(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Err(err).Str("username", req.Username).Msg("Registration failed")
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, "Admin created successfully", resp)
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	resp, err := h.adminService.Login(r.Context(), &req)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Admin logged in successfully", resp)
}

func (h *AdminHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	admin, err := h.adminService.GetProfile(r.Context(), caller.AdminID)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Your profile found successfully", admin)
}

func (h *AdminHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	var patch models.AdminPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	admin, err := h.adminService.UpdateProfile(r.Context(), caller.AdminID, &patch)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Your profile updated successfully", admin)
}

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	admin, err := h.adminService.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Admin successfully found", admin)
}

// Update refuses any body naming a password, even one set to null.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	if _, ok := raw["password"]; ok {
		respondWithMessage(w, http.StatusBadRequest, "Password must be unavailable")
		return
	}

	var patch models.AdminPatch
	if err := remarshal(raw, &patch); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	admin, err := h.adminService.Update(r.Context(), mux.Vars(r)["id"], &patch)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Admin updated successfully", admin)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	admin, err := h.adminService.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Admin deleted successfully", admin)
}
