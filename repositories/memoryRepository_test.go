package repositories

import (
	"context"
	"testing"

	"github.com/Kariqs/bookbuy-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMemoryCartRepository_ReadsAreCopies(t *testing.T) {
	repo := NewMemoryCartRepository()
	ctx := context.Background()
	user, book := bson.NewObjectID(), bson.NewObjectID()
	require.NoError(t, repo.AddItem(ctx, user, book, 1))

	cart, err := repo.FindByUser(ctx, user)
	require.NoError(t, err)
	cart.Items[0].Quantity = 99

	again, err := repo.FindByUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.Items[0].Quantity)
}

func TestMemoryBookRepository_Search(t *testing.T) {
	repo := NewMemoryBookRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Book{Title: "Dune"}))
	require.NoError(t, repo.Create(ctx, &models.Book{Title: "Emma"}))

	books, err := repo.Search(ctx, "du")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
