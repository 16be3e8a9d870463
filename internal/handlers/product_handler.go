package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"catalog-admin/internal/models"
	"catalog-admin/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type ProductHandler struct {
	productService *services.ProductService
	maxUploadBytes int64
	logger         zerolog.Logger
}

func NewProductHandler(productService *services.ProductService, maxUploadBytes int64, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, total, err := h.productService.List(r.Context(), models.ProductQuery{
		Limit:      queryInt(r, "limit", 10),
		Skip:       queryInt(r, "skip", 1),
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
		CategoryID: q.Get("category"),
	})
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithList(w, "Products fetched successfully", products, total)
}

func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category, products, total, err := h.productService.ListByCategory(
		r.Context(),
		mux.Vars(r)["categoryId"],
		queryInt(r, "limit", 10),
		queryInt(r, "skip", 0),
	)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithList(w, "All products for category "+category.Title, products, total)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Product found", product)
}

// Create expects multipart/form-data: scalar fields as form values, info as
// a JSON array string and the images under "photos".
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithMessage(w, http.StatusRequestEntityTooLarge, "Upload is too large")
			return
		}
		respondWithMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, err := productFromForm(r.MultipartForm)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	product, err := h.productService.Create(
		r.Context(),
		req,
		caller.AdminID,
		services.PublicBaseURL(r),
		r.MultipartForm.File["photos"],
	)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	product, err := h.productService.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Product deleted successfully", product)
}

func productFromForm(form *multipart.Form) (*models.ProductRequest, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	req := &models.ProductRequest{
		Title:       value("title"),
		CategoryID:  value("categoryId"),
		Units:       value("units"),
		Description: value("description"),
	}

	if s := value("price"); s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, mustBe("price", "a number")
		}
		req.Price = &price
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"oldPrice", &req.OldPrice},
		{"rating", &req.Rating},
	}
	for _, f := range floats {
		if s := value(f.key); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, mustBe(f.key, "a number")
			}
			*f.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"stock", &req.Stock},
		{"views", &req.Views},
	}
	for _, f := range ints {
		if s := value(f.key); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, mustBe(f.key, "an integer")
			}
			*f.dst = v
		}
	}

	if s := value("available"); s != "" {
		available, err := strconv.ParseBool(s)
		if err != nil {
			return nil, mustBe("available", "a boolean")
		}
		req.Available = &available
	}

	if s := value("info"); s != "" {
		if err := json.Unmarshal([]byte(s), &req.Info); err != nil {
			return nil, mustBe("info", "a JSON array")
		}
	}

	return req, nil
}

func mustBe(field, what string) error {
	return &services.ValidationError{Field: field, Message: fmt.Sprintf("%q must be %s", field, what)}
}
