package service

import (
	"context"
	"math"
	"testing"

	"github.com/nsxzhou1114/news-portal/internal/dto"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CRUD(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.categories.Create(ctx, &dto.CategoryCreateRequest{Name: " "})
	require.ErrorIs(t, err, errs.ErrValidation)

	created, err := env.categories.Create(ctx, &dto.CategoryCreateRequest{Name: "Tech", Description: "gadgets"})
	require.NoError(t, err)
	env.createArticles(t, 2, "tech", ptr(created.ID))

	got, err := env.categories.Get(ctx, created.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, got.ArticleCount)

	updated, err := env.categories.Update(ctx, created.ID, &dto.CategoryUpdateRequest{Name: ptr("Technology")})
	require.NoError(t, err)
	require.Equal(t, "Technology", updated.Name)
	require.Equal(t, "gadgets", updated.Description)

	_, err = env.categories.Update(ctx, created.ID, &dto.CategoryUpdateRequest{Name: ptr("")})
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = env.categories.Update(ctx, 42, &dto.CategoryUpdateRequest{Description: ptr("x")})
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.ErrorIs(t, env.categories.Delete(ctx, 42), errs.ErrNotFound)
	require.NoError(t, env.categories.Delete(ctx, created.ID))
	_, err = env.categories.Get(ctx, created.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCategoryService_Listing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	for _, n := range []string{"Technology", "World", "Local"} {
		env.createCategory(t, n)
	}

	all, err := env.categories.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Technology", all[0].Name)

	page, err := env.categories.ListPage(ctx, dto.PageQuery{Page: ptr(2), PerPage: ptr(2)})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Local", page.Items[0].Name)
	require.True(t, page.HasPrev)
	require.False(t, page.HasNext)

	page, err = env.categories.ListPage(ctx, dto.PageQuery{Page: ptr(math.MaxInt), PerPage: ptr(2)})
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Equal(t, 2, page.Pages)

	_, err = env.categories.ListPage(ctx, dto.PageQuery{Page: ptr(1), PerPage: ptr(0)})
	require.ErrorIs(t, err, errs.ErrValidation)
}
