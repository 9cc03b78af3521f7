package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iteka-youth/site-backend/errors"
	"github.com/iteka-youth/site-backend/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupContentRouter(svc ContentServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewContentHandler(svc)
	r.GET("/api/content/:collection", h.GetCollection)
	r.GET("/api/content/:collection/:slug", h.GetBySlug)
	return r
}

func getContent(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetCollection_Success(t *testing.T) {
	svc := new(mockContentService)
	svc.On("GetCollection", mock.Anything, "programmes", "").
		Return(json.RawMessage(`[{"id":1,"attributes":{"title":"Mentoring"}}]`), nil)

	r := setupContentRouter(svc)
	w := getContent(r, "/api/content/programmes")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"id":1,"attributes":{"title":"Mentoring"}}]}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestGetCollection_CategoryFilter(t *testing.T) {
	svc := new(mockContentService)
	svc.On("GetCollection", mock.Anything, "galleries", "festival").
		Return(json.RawMessage(`[]`), nil)

	r := setupContentRouter(svc)
	w := getContent(r, "/api/content/galleries?category=festival")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestGetCollection_UnknownCollection(t *testing.T) {
	svc := new(mockContentService)
	svc.On("GetCollection", mock.Anything, "secrets", "").
		Return(nil, errors.NotFound("Collection", "secrets"))

	r := setupContentRouter(svc)
	w := getContent(r, "/api/content/secrets")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"404"`)
}

func TestGetBySlug_Success(t *testing.T) {
	svc := new(mockContentService)
	svc.On("GetBySlug", mock.Anything, "actualites", "summer-camp").
		Return(json.RawMessage(`{"id":4,"attributes":{"slug":"summer-camp"}}`), nil)

	r := setupContentRouter(svc)
	w := getContent(r, "/api/content/actualites/summer-camp")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"id":4,"attributes":{"slug":"summer-camp"}}}`, w.Body.String())
}

func TestGetBySlug_Missing(t *testing.T) {
	svc := new(mockContentService)
	svc.On("GetBySlug", mock.Anything, "actualites", "nope").
		Return(nil, errors.NotFound("Article", "nope"))

	r := setupContentRouter(svc)
	w := getContent(r, "/api/content/actualites/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCollection_CMSDown(t *testing.T) {
	svc := new(mockContentService)
	svc.On("GetCollection", mock.Anything, "partners", "").
		Return(nil, errors.Wrap(assert.AnError, errors.PersistenceError, "Failed to fetch content"))

	r := setupContentRouter(svc)
	w := getContent(r, "/api/content/partners")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch content")
}
