package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCartAddAndMerge(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	ctx := context.Background()
	user := seedTestUser(t, r, "buyer@example.com")
	product := seedTestProduct(t, r, "RA-AC0E", 3000000, 5)

	item, err := cart.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 2, item.Quantity)
	require.True(t, item.Price.Equal(decimal.NewFromInt(3000000)))

	// same product merges into one line
	item, err = cart.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 3, item.Quantity)

	view, err := cart.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Cart.Items, 1)
	require.Equal(t, 3, view.ItemsCount)
	require.True(t, view.Subtotal.Equal(decimal.NewFromInt(9000000)))
}

func TestCartAddRespectsStock(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	ctx := context.Background()
	user := seedTestUser(t, r, "buyer@example.com")
	product := seedTestProduct(t, r, "RA-AC0E", 3000000, 3)

	_, err := cart.AddItem(ctx, user.ID, product.ID, 4)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// the merged quantity is re-checked
	_, err = cart.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	_, err = cart.AddItem(ctx, user.ID, product.ID, 2)
	require.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartAddCapturesSalePrice(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	ctx := context.Background()
	user := seedTestUser(t, r, "buyer@example.com")
	product := seedTestProduct(t, r, "RA-AC0E", 3000000, 5)

	sale := decimal.NewFromInt(2500000)
	require.NoError(t, r.DB.Model(product).Update("sale_price", sale).Error)

	item, err := cart.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	require.True(t, item.Price.Equal(sale))
}

func TestCartUpdateItem(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	ctx := context.Background()
	user := seedTestUser(t, r, "buyer@example.com")
	product := seedTestProduct(t, r, "RA-AC0E", 3000000, 5)

	item, err := cart.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)

	updated, err := cart.UpdateItem(ctx, user.ID, item.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 4, updated.Quantity)

	_, err = cart.UpdateItem(ctx, user.ID, item.ID, 6)
	require.ErrorIs(t, err, ErrInsufficientStock)
	_, err = cart.UpdateItem(ctx, user.ID, item.ID, 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestCartRemoveAndClear(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	ctx := context.Background()
	user := seedTestUser(t, r, "buyer@example.com")
	first := seedTestProduct(t, r, "RA-AC0E", 3000000, 5)
	second := seedTestProduct(t, r, "RA-AA00", 4000000, 5)

	item, err := cart.AddItem(ctx, user.ID, first.ID, 1)
	require.NoError(t, err)
	_, err = cart.AddItem(ctx, user.ID, second.ID, 1)
	require.NoError(t, err)

	require.NoError(t, cart.RemoveItem(ctx, user.ID, item.ID))
	require.ErrorIs(t, cart.RemoveItem(ctx, user.ID, item.ID), ErrNotFound)

	require.NoError(t, cart.Clear(ctx, user.ID))
	view, err := cart.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, view.Cart.Items)
	require.True(t, view.Subtotal.IsZero())
}

func TestCartItemsAreIsolatedPerUser(t *testing.T) {
	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	ctx := context.Background()
	alice := seedTestUser(t, r, "alice@example.com")
	bob := seedTestUser(t, r, "bob@example.com")
	product := seedTestProduct(t, r, "RA-AC0E", 3000000, 5)

	item, err := cart.AddItem(ctx, alice.ID, product.ID, 1)
	require.NoError(t, err)

	// bob cannot touch alice's line
	_, err = cart.UpdateItem(ctx, bob.ID, item.ID, 2)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, cart.RemoveItem(ctx, bob.ID, item.ID), ErrNotFound)
}
