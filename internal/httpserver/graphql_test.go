package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellershut/categories/internal/category"
	"github.com/sellershut/categories/internal/graphqlapi"
)

type fakeService struct {
	byID category.Category
}

func (f *fakeService) Create(_ context.Context, input category.Category) (category.Category, error) {
	return input, nil
}
func (f *fakeService) Update(_ context.Context, input category.Category) (category.Category, error) {
	return input, nil
}
func (f *fakeService) Delete(_ context.Context, _ string) error { return nil }
func (f *fakeService) CategoryById(_ context.Context, id string) (category.Category, error) {
	return f.byID, nil
}
func (f *fakeService) Categories(_ context.Context, _ category.Pagination) (category.Connection, error) {
	return category.Connection{}, nil
}
func (f *fakeService) SubCategories(_ context.Context, _ *string, _ category.Pagination) (category.Connection, error) {
	return category.Connection{}, nil
}

func postGQL(t *testing.T, h http.Handler, operationName string, variables any) *httptest.ResponseRecorder {
	t.Helper()
	varsJSON, err := json.Marshal(variables)
	require.NoError(t, err)
	body, err := json.Marshal(gqlRequest{OperationName: operationName, Variables: varsJSON})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGraphQLHandlerCategoryById(t *testing.T) {
	svc := &fakeService{byID: category.Category{ID: "cat-1", Name: "Books"}}
	h := newRequestHandler(graphqlapi.NewResolver(svc))

	rec := postGQL(t, h, "categoryById", map[string]any{"id": "cat-1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Errors)
}

func TestGraphQLHandlerUnknownOperation(t *testing.T) {
	h := newRequestHandler(graphqlapi.NewResolver(&fakeService{}))
	rec := postGQL(t, h, "notARealOperation", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
}

func TestGraphQLHandlerDeleteReturnsBoolean(t *testing.T) {
	h := newRequestHandler(graphqlapi.NewResolver(&fakeService{}))
	rec := postGQL(t, h, "delete", map[string]any{"id": "cat-1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]bool `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data["delete"])
}
