package handler

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"cat_registry/internal/model"
	"cat_registry/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatService struct {
	cat  *model.Cat
	cats []model.Cat
	err  error
}

func (s *stubCatService) ListCats(ctx context.Context) ([]model.Cat, error) {
	return s.cats, s.err
}

func (s *stubCatService) GetCatByID(ctx context.Context, catID string) (*model.Cat, error) {
	return s.cat, s.err
}

func (s *stubCatService) ListCatsByOwner(ctx context.Context, ident model.Identity) ([]model.Cat, error) {
	return s.cats, s.err
}

func (s *stubCatService) ListCatsInBoundingBox(ctx context.Context, bottomLeft, topRight string) ([]model.Cat, error) {
	return s.cats, s.err
}

func (s *stubCatService) CreateCat(ctx context.Context, ident model.Identity, req model.CreateCatRequest, file *multipart.FileHeader, location *model.GeoPoint) (*model.Cat, error) {
	return s.cat, s.err
}

func (s *stubCatService) UpdateCat(ctx context.Context, catID string, ident model.Identity, req model.UpdateCatRequest, file *multipart.FileHeader, location *model.GeoPoint) (*model.Cat, error) {
	return s.cat, s.err
}

func (s *stubCatService) AdminUpdateCat(ctx context.Context, catID string, ident model.Identity, req model.AdminUpdateCatRequest) (*model.Cat, error) {
	return s.cat, s.err
}

func (s *stubCatService) DeleteCat(ctx context.Context, catID string, ident model.Identity) (*model.Cat, error) {
	return s.cat, s.err
}

func (s *stubCatService) AdminDeleteCat(ctx context.Context, catID string, ident model.Identity) (*model.Cat, error) {
	return s.cat, s.err
}

func newCatRouter(svc service.CatService, authMW gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewCatHandler(svc).RegisterCatRoutes(router.Group("/api/v1"), authMW, passThrough, passThrough)
	return router
}

var callerIdent = model.Identity{ID: "u-1", UserName: "matti", Email: "matti@example.com", Role: model.RoleUser}

func TestListCats_EmptyCollectionIsNotFound(t *testing.T) {
	router := newCatRouter(&stubCatService{err: service.ErrNoCatsFound}, passThrough)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMyCats_EmptyResultIsEmptyArray(t *testing.T) {
	router := newCatRouter(&stubCatService{cats: nil}, setIdentity(callerIdent))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cats/user", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetCatsByBoundingBox_EmptyResultIsEmptyArray(t *testing.T) {
	router := newCatRouter(&stubCatService{cats: nil}, passThrough)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cats/location?topRight=70,70&bottomLeft=60,60", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetCatByID_NotFoundStatus(t *testing.T) {
	router := newCatRouter(&stubCatService{err: service.ErrCatNotFound}, passThrough)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cats/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCat_ForbiddenStatus(t *testing.T) {
	router := newCatRouter(&stubCatService{err: service.ErrForbidden}, setIdentity(callerIdent))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cats/c-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteCat_ConfirmationEnvelope(t *testing.T) {
	cat := &model.Cat{ID: "c-1", CatName: "Siiri", Weight: 3.2, Filename: "siiri.jpg",
		Owner: &model.OwnerSnapshot{ID: "u-1", UserName: "matti", Email: "matti@example.com"}}
	router := newCatRouter(&stubCatService{cat: cat}, setIdentity(callerIdent))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cats/c-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string    `json:"message"`
		Data    model.Cat `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Cat deleted", resp.Message)
	assert.Equal(t, "c-1", resp.Data.ID)
}

func TestDeleteCat_NoIdentityIsUnauthorized(t *testing.T) {
	router := newCatRouter(&stubCatService{}, passThrough)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cats/c-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateCat_ServerErrorIsGeneric(t *testing.T) {
	router := newCatRouter(&stubCatService{err: errors.New("connection reset")}, setIdentity(callerIdent))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cats/c-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to update cat")
}
