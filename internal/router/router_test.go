package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog-admin/internal/config"
	"catalog-admin/internal/db"
	"catalog-admin/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret"

type envelope struct {
	Msg        string          `json:"msg"`
	Variant    string          `json:"variant"`
	Payload    json.RawMessage `json:"payload"`
	TotalCount *int64          `json:"totalCount"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	owner   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), db.Options(zerolog.Nop()))
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.RunMigrations(database))

	cfg := config.Config{
		SecretKey:      testSecret,
		TokenTTL:       time.Hour,
		UploadDir:      t.TempDir(),
		MaxUploadMB:    1,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		CORSOrigins:    []string{"*"},
	}

	app, err := SetupRouter(cfg, database, zerolog.Nop())
	require.NoError(t, err)

	created, err := app.Admins.EnsureOwner(context.Background(), "owner", "owner-pw", "1")
	require.NoError(t, err)
	require.True(t, created)

	s := &testServer{t: t, handler: app.Handler}
	s.owner = s.login("owner", "owner-pw")
	return s
}

func (s *testServer) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	rec, env := s.do("POST", "/admin/sign-in", "", map[string]string{"username": username, "password": password})
	require.Equal(s.t, http.StatusOK, rec.Code, env.Msg)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Payload, &payload))
	return payload.Token
}

func (s *testServer) signUp(username string) (token, id string) {
	s.t.Helper()
	rec, env := s.do("POST", "/admin/sign-up", s.owner, map[string]string{
		"fname":    "Test",
		"username": username,
		"password": "pw-" + username,
		"phone":    "1",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, env.Msg)

	var payload struct {
		Token string `json:"token"`
		Admin struct {
			ID string `json:"id"`
		} `json:"admin"`
	}
	require.NoError(s.t, json.Unmarshal(env.Payload, &payload))
	return payload.Token, payload.Admin.ID
}

func (s *testServer) createCategory(token, title string) string {
	s.t.Helper()
	rec, env := s.do("POST", "/category", token, map[string]string{"title": title})
	require.Equal(s.t, http.StatusCreated, rec.Code, env.Msg)

	var payload struct {
		Category struct {
			ID string `json:"id"`
		} `json:"category"`
	}
	require.NoError(s.t, json.Unmarshal(env.Payload, &payload))
	return payload.Category.ID
}

func (s *testServer) createProduct(token string, fields map[string]string, photos ...string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	for _, name := range photos {
		part, err := w.CreateFormFile("photos", name)
		require.NoError(s.t, err)
		_, err = part.Write([]byte("png:" + name))
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest("POST", "/product", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return s.serve(req)
}

func productFields(title, price, categoryID string) map[string]string {
	return map[string]string{
		"title":       title,
		"price":       price,
		"categoryId":  categoryID,
		"units":       "kg",
		"description": "fresh",
		"info":        `["organic"]`,
	}
}

func TestAdminAuthFlow(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do("POST", "/admin/sign-up", s.owner, map[string]string{
		"fname": "Ali", "username": "ali", "password": "pw", "phone": "1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Admin created successfully", env.Msg)
	assert.Equal(t, "success", env.Variant)
	assert.NotContains(t, string(env.Payload), "password")

	rec, env = s.do("POST", "/admin/sign-up", s.owner, map[string]string{
		"fname": "Ali", "username": "ali", "password": "pw", "phone": "1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "This username already exists", env.Msg)
	assert.Equal(t, "error", env.Variant)

	rec, env = s.do("POST", "/admin/sign-up", s.owner, map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `"fname" is required`, env.Msg)

	rec, env = s.do("POST", "/admin/sign-in", "", map[string]string{"username": "ali", "password": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid username or password", env.Msg)

	assert.NotEmpty(t, s.login("ali", "pw"))
}

func TestAccessGate(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do("GET", "/admin", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied.", env.Msg)

	// a gated write without credentials is refused before its body is looked at
	req := httptest.NewRequest("POST", "/category", strings.NewReader("title=x"))
	req.Header.Set("Content-Type", "text/plain")
	rec, _ = s.serve(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do("GET", "/admin", "tampered."+s.owner, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token.", env.Msg)

	expired, err := services.NewTokenService(testSecret, -time.Minute, zerolog.Nop()).Issue("x", "owner", true)
	require.NoError(t, err)
	rec, _ = s.do("GET", "/admin", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = s.do("GET", "/admin", s.owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.TotalCount)
	assert.Equal(t, int64(1), *env.TotalCount)
}

func TestOwnerOnlyAdminManagement(t *testing.T) {
	s := newTestServer(t)
	adminToken, adminID := s.signUp("plain")
	_, otherID := s.signUp("other")

	rec, env := s.do("DELETE", "/admin/"+otherID, adminToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied.", env.Msg)

	rec, env = s.do("PATCH", "/admin/"+adminID, s.owner, map[string]string{"password": "new"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be unavailable", env.Msg)

	rec, env = s.do("PATCH", "/admin/"+adminID, s.owner, map[string]interface{}{"password": nil})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be unavailable", env.Msg)

	rec, _ = s.do("PATCH", "/admin/"+adminID, s.owner, map[string]interface{}{"isActive": false})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do("POST", "/admin/sign-in", "", map[string]string{"username": "plain", "password": "pw-plain"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", env.Msg)

	rec, env = s.do("DELETE", "/admin/"+otherID, s.owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Admin deleted successfully", env.Msg)

	rec, env = s.do("GET", "/admin/"+otherID, s.owner, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Admin not found", env.Msg)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp("me")

	rec, env := s.do("GET", "/admin/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Payload), `"username":"me"`)

	rec, env = s.do("PATCH", "/admin/profile", token, map[string]string{"lname": "Updated"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Your profile updated successfully", env.Msg)
	assert.Contains(t, string(env.Payload), `"lname":"Updated"`)

	assert.NotEmpty(t, s.login("me", "pw-me"), "profile edits without a password keep the old one")
}

func TestProductLifecycle(t *testing.T) {
	s := newTestServer(t)
	categoryID := s.createCategory(s.owner, "Fruits")

	rec, env := s.createProduct(s.owner, productFields("Apple", "3.5", categoryID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Msg, "photos")

	rec, env = s.createProduct(s.owner, productFields("Apple", "cheap", categoryID), "a.png")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `"price" must be a number`, env.Msg)

	rec, env = s.createProduct(s.owner, productFields("Apple", "3.5", categoryID), "apple.png")
	require.Equal(t, http.StatusCreated, rec.Code, env.Msg)

	var product struct {
		ID   string   `json:"id"`
		URLs []string `json:"urls"`
		Info []string `json:"info"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &product))
	require.Len(t, product.URLs, 1)
	assert.Equal(t, []string{"organic"}, product.Info)

	imagePath := strings.TrimPrefix(product.URLs[0], "http://example.com")
	assert.True(t, strings.HasPrefix(imagePath, "/images/"), product.URLs[0])
	rec, _ = s.serve(httptest.NewRequest("GET", imagePath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png:apple.png", rec.Body.String())

	storedName := strings.TrimPrefix(imagePath, "/images/")
	rec, _ = s.serve(httptest.NewRequest("GET", "/images/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "the upload folder must not be listed")
	assert.NotContains(t, rec.Body.String(), storedName)

	rec, env = s.createProduct(s.owner, productFields("Apple", "1", categoryID), "b.png")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "This title already exists", env.Msg)

	rec, env = s.do("GET", "/product/"+product.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Payload), `"title":"Fruits"`)

	price := 4.0
	rec, env = s.do("PATCH", "/product/"+product.ID, s.owner, map[string]interface{}{
		"title": "Apple", "price": price, "categoryId": categoryID, "units": "kg", "description": "crisp",
	})
	require.Equal(t, http.StatusOK, rec.Code, env.Msg)
	assert.Contains(t, string(env.Payload), product.URLs[0])

	rec, _ = s.do("DELETE", "/product/"+product.ID, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do("DELETE", "/product/"+product.ID, s.owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do("GET", "/product/"+product.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", env.Msg)
}

func TestProductListing(t *testing.T) {
	s := newTestServer(t)
	fruits := s.createCategory(s.owner, "Fruits")
	drinks := s.createCategory(s.owner, "Drinks")

	for title, price := range map[string]string{"Pear": "7", "Plum": "2"} {
		rec, env := s.createProduct(s.owner, productFields(title, price, fruits), title+".png")
		require.Equal(t, http.StatusCreated, rec.Code, env.Msg)
	}
	rec, env := s.createProduct(s.owner, productFields("Juice", "4", drinks), "juice.png")
	require.Equal(t, http.StatusCreated, rec.Code, env.Msg)

	listTitles := func(path string) ([]string, int64) {
		t.Helper()
		rec, env := s.do("GET", path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, env.Msg)
		var products []struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(env.Payload, &products))
		out := make([]string, 0, len(products))
		for _, p := range products {
			out = append(out, p.Title)
		}
		require.NotNil(t, env.TotalCount)
		return out, *env.TotalCount
	}

	got, total := listTitles("/products")
	assert.Equal(t, []string{"Plum", "Juice", "Pear"}, got)
	assert.Equal(t, int64(3), total)

	got, _ = listTitles("/products?sortOrder=desc")
	assert.Equal(t, []string{"Pear", "Juice", "Plum"}, got)

	got, total = listTitles("/products?category=" + fruits)
	assert.ElementsMatch(t, []string{"Pear", "Plum"}, got)
	assert.Equal(t, int64(2), total)

	got, _ = listTitles("/products?limit=1&skip=2")
	assert.Equal(t, []string{"Juice"}, got)

	got, total = listTitles("/product/category/" + drinks)
	assert.Equal(t, []string{"Juice"}, got)
	assert.Equal(t, int64(1), total)

	rec, env = s.do("GET", "/products?sortBy=secret", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", env.Variant)
}

func TestCategoryAndComment(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp("writer")
	categoryID := s.createCategory(token, "Veg")

	rec, env := s.do("POST", "/category", token, map[string]string{"title": "Veg"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "This title already exists", env.Msg)

	rec, env = s.do("GET", "/category", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), *env.TotalCount)
	assert.Contains(t, string(env.Payload), `"username":"writer"`)

	rec, env = s.createProduct(token, productFields("Carrot", "1", categoryID), "c.png")
	require.Equal(t, http.StatusCreated, rec.Code, env.Msg)
	var product struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &product))

	rec, _ = s.do("GET", "/comment", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do("POST", "/comment", token, map[string]interface{}{
		"text": "tasty", "productId": product.ID, "rating": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Msg)
	assert.Contains(t, string(env.Payload), `"createdBy"`)

	rec, env = s.do("DELETE", "/category/"+categoryID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Payload), `"deletedBy"`)
}

func TestMiscRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do("GET", "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", env.Msg)

	rec, _ = s.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.serve(httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	req := httptest.NewRequest("OPTIONS", "/product/abc", nil)
	req.Header.Set("Origin", "https://shop.test")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rec, _ = s.serve(req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
