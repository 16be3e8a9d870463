package router

import (
	"net/http"
	"os"

	"catalog-admin/internal/config"
	"catalog-admin/internal/handlers"
	"catalog-admin/internal/middleware"
	"catalog-admin/internal/models"
	"catalog-admin/internal/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// App is the wired HTTP stack plus the services main needs at startup.
type App struct {
	Handler http.Handler
	Admins  *services.AdminService
}

func SetupRouter(cfg config.Config, db *gorm.DB, logger zerolog.Logger) (*App, error) {
	validate := services.NewValidator()
	tokens := services.NewTokenService(cfg.SecretKey, cfg.TokenTTL, logger)

	uploads, err := services.NewUploadService(cfg.UploadDir, logger)
	if err != nil {
		return nil, err
	}

	adminService := services.NewAdminService(db, tokens, validate, logger)
	categoryService := services.NewCategoryService(db, validate, logger)
	productService := services.NewProductService(db, uploads, validate, logger)
	commentService := services.NewCommentService(db, validate, logger)

	adminHandler := handlers.NewAdminHandler(adminService, logger)
	categoryHandler := handlers.NewCategoryHandler(categoryService, logger)
	productHandler := handlers.NewProductHandler(productService, cfg.MaxUploadMB<<20, logger)
	commentHandler := handlers.NewCommentHandler(commentService, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(metrics.Middleware())
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(rateLimiter.Middleware())

	// The gate runs before body checks so unauthenticated calls always get 403/401.
	authenticated := middleware.Authentication(tokens, logger)
	ownerOnly := middleware.RequireRole(models.RoleOwner)
	body := middleware.RequestValidation("application/json", "multipart/form-data")

	public := func(h http.HandlerFunc) http.Handler {
		return body(h)
	}
	auth := func(h http.HandlerFunc) http.Handler {
		return authenticated(body(h))
	}
	owner := func(h http.HandlerFunc) http.Handler {
		return authenticated(ownerOnly(body(h)))
	}

	// admins; /admin/profile must precede /admin/{id}
	r.Handle("/admin", auth(adminHandler.List)).Methods("GET")
	r.Handle("/admin", auth(adminHandler.Register)).Methods("POST")
	r.Handle("/admin/sign-up", auth(adminHandler.Register)).Methods("POST")
	r.Handle("/admin/sign-in", public(adminHandler.Login)).Methods("POST")
	r.Handle("/admin/profile", auth(adminHandler.GetProfile)).Methods("GET")
	r.Handle("/admin/profile", auth(adminHandler.UpdateProfile)).Methods("PATCH")
	r.Handle("/admin/{id}", owner(adminHandler.Get)).Methods("GET")
	r.Handle("/admin/{id}", owner(adminHandler.Update)).Methods("PATCH")
	r.Handle("/admin/{id}", owner(adminHandler.Delete)).Methods("DELETE")

	// products
	r.HandleFunc("/products", productHandler.List).Methods("GET")
	r.HandleFunc("/product/category/{categoryId}", productHandler.ListByCategory).Methods("GET")
	r.HandleFunc("/product/{id}", productHandler.Get).Methods("GET")
	r.Handle("/product/{id}", auth(productHandler.Update)).Methods("PATCH")
	r.Handle("/product/{id}", auth(productHandler.Delete)).Methods("DELETE")
	r.Handle("/product", auth(productHandler.Create)).Methods("POST")

	// categories
	r.HandleFunc("/category", categoryHandler.List).Methods("GET")
	r.HandleFunc("/category/{id}", categoryHandler.Get).Methods("GET")
	r.Handle("/category", auth(categoryHandler.Create)).Methods("POST")
	r.Handle("/category/{id}", auth(categoryHandler.Update)).Methods("PATCH")
	r.Handle("/category/{id}", auth(categoryHandler.Delete)).Methods("DELETE")

	// comments
	r.Handle("/comment", auth(commentHandler.List)).Methods("GET")
	r.Handle("/comment/{id}", auth(commentHandler.Get)).Methods("GET")
	r.Handle("/comment", auth(commentHandler.Create)).Methods("POST")
	r.Handle("/comment/{id}", auth(commentHandler.Update)).Methods("PATCH")
	r.Handle("/comment/{id}", auth(commentHandler.Delete)).Methods("DELETE")

	r.PathPrefix(services.ImagesPrefix).Handler(
		http.StripPrefix(services.ImagesPrefix, http.FileServer(filesOnly{http.Dir(uploads.Dir())})),
	).Methods("GET")

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"msg":"Route not found","variant":"error","payload":null}`))
	})

	// CORS wraps the router so preflight requests, which match no route, are answered too.
	return &App{Handler: middleware.CORS(cfg.CORSOrigins)(r), Admins: adminService}, nil
}

// filesOnly hides directories so the upload folder is never listed.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
