package handlers

import (
	"net/http"

	"catalog-admin/internal/models"
	"catalog-admin/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	logger          zerolog.Logger
}

func NewCategoryHandler(categoryService *services.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, total, err := h.categoryService.List(r.Context())
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithList(w, "All categories", categories, total)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Category found", category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	var req models.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	result, err := h.categoryService.Create(r.Context(), &req, caller.AdminID)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, "Category created successfully", result)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	result, err := h.categoryService.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Category updated successfully", result)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.categoryService.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Category deleted successfully", result)
}
