package graphqlapi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellershut/categories/internal/category"
)

type fakeService struct {
	createInput category.Category
	deleteErr   error
	byID        category.Category
	byIDErr     error
}

func (f *fakeService) Create(_ context.Context, input category.Category) (category.Category, error) {
	f.createInput = input
	return input, nil
}
func (f *fakeService) Update(_ context.Context, input category.Category) (category.Category, error) {
	return input, nil
}
func (f *fakeService) Delete(_ context.Context, _ string) error { return f.deleteErr }
func (f *fakeService) CategoryById(_ context.Context, _ string) (category.Category, error) {
	return f.byID, f.byIDErr
}
func (f *fakeService) Categories(_ context.Context, _ category.Pagination) (category.Connection, error) {
	return category.Connection{}, nil
}
func (f *fakeService) SubCategories(_ context.Context, _ *string, _ category.Pagination) (category.Connection, error) {
	return category.Connection{}, nil
}

func TestResolverCreate(t *testing.T) {
	svc := &fakeService{}
	r := NewResolver(svc)

	got, err := r.Create(context.Background(), CategoryInput{Name: "Books"})
	require.NoError(t, err)
	assert.Equal(t, "Books", got.Name)
	assert.Equal(t, "Books", svc.createInput.Name)
}

func TestResolverDeleteReturnsTrueOnSuccess(t *testing.T) {
	r := NewResolver(&fakeService{})
	ok, err := r.Delete(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResolverDeletePropagatesError(t *testing.T) {
	svc := &fakeService{deleteErr: errors.New("boom")}
	r := NewResolver(svc)

	ok, err := r.Delete(context.Background(), "cat-1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestResolverCategoryByIdNotFound(t *testing.T) {
	svc := &fakeService{byIDErr: errors.New("not found")}
	r := NewResolver(svc)

	_, err := r.CategoryById(context.Background(), "missing")
	assert.Error(t, err)
}
