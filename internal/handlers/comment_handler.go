package handlers

import (
	"net/http"

	"catalog-admin/internal/models"
	"catalog-admin/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type CommentHandler struct {
	commentService *services.CommentService
	logger         zerolog.Logger
}

func NewCommentHandler(commentService *services.CommentService, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	comments, total, err := h.commentService.List(r.Context())
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithList(w, "All comments", comments, total)
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	comment, err := h.commentService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Comment found", comment)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	result, err := h.commentService.Create(r.Context(), &req, caller.AdminID)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, "Comment created successfully", result)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	result, err := h.commentService.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Comment updated successfully", result)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.commentService.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Comment deleted successfully", result)
}
