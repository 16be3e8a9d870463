package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"catalog-admin/internal/db"
	"catalog-admin/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), db.Options(zerolog.Nop()))
	require.NoError(t, err)

	// every new connection to :memory: would be a fresh, empty database
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(database))
	t.Cleanup(func() { sqlDB.Close() })
	return database
}

type testEnv struct {
	db         *gorm.DB
	tokens     *TokenService
	admins     *AdminService
	categories *CategoryService
	products   *ProductService
	comments   *CommentService
	uploads    *UploadService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := setupTestDB(t)
	logger := zerolog.Nop()
	validate := NewValidator()
	tokens := NewTokenService(testSecret, time.Hour, logger)

	uploads, err := NewUploadService(t.TempDir(), logger)
	require.NoError(t, err)

	return &testEnv{
		db:         database,
		tokens:     tokens,
		admins:     NewAdminService(database, tokens, validate, logger),
		categories: NewCategoryService(database, validate, logger),
		products:   NewProductService(database, uploads, validate, logger),
		comments:   NewCommentService(database, validate, logger),
		uploads:    uploads,
	}
}

func (e *testEnv) register(t *testing.T, username string) *models.Admin {
	t.Helper()
	resp, err := e.admins.Register(context.Background(), &models.RegisterRequest{
		Fname:    "Name " + username,
		Username: username,
		Password: "secret-" + username,
		Phone:    "1",
	})
	require.NoError(t, err)
	return resp.Admin
}

func (e *testEnv) category(t *testing.T, title, adminID string) *models.Category {
	t.Helper()
	result, err := e.categories.Create(context.Background(), &models.CategoryRequest{Title: title}, adminID)
	require.NoError(t, err)
	return result.Category
}

// insertProduct bypasses the service so tests control price and creation time.
func (e *testEnv) insertProduct(t *testing.T, title string, price float64, categoryID, adminID string, createdAt time.Time) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:       title,
		Price:       price,
		Units:       string(models.UnitKg),
		Description: "d",
		URLs:        []string{"http://example.com/images/x.png"},
		Info:        []any{},
		Available:   true,
		CategoryID:  categoryID,
		AdminID:     adminID,
		CreatedAt:   createdAt,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func productRequest(title string, price float64, categoryID string) *models.ProductRequest {
	return &models.ProductRequest{
		Title:       title,
		Price:       &price,
		CategoryID:  categoryID,
		Units:       string(models.UnitKg),
		Description: "fresh",
	}
}

// fileHeaders builds real multipart file headers the way net/http would.
func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		part, err := w.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["photos"]
}
