package catalog_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/catalog"
	"github.com/quickcart-io/quickcart/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestReplace(t *testing.T) {
	store := catalog.NewStore()

	first := models.Product{ID: uuid.New(), Name: "Lamp", OfferPrice: 25}
	second := models.Product{ID: uuid.New(), Name: "Mug", OfferPrice: 14.99}

	store.Replace([]models.Product{first, second})

	assert.Equal(t, 2, store.Len())

	got, ok := store.Lookup(first.ID.String())
	assert.True(t, ok)
	assert.Equal(t, "Lamp", got.Name)

	// Wholesale swap: anything absent from the new set is gone.
	store.Replace([]models.Product{second})

	assert.Equal(t, 1, store.Len())

	_, ok = store.Lookup(first.ID.String())
	assert.False(t, ok)
}

func TestUpsert(t *testing.T) {
	store := catalog.NewStore()

	product := models.Product{ID: uuid.New(), Name: "Lamp", OfferPrice: 25}
	store.Upsert(product)

	got, ok := store.Lookup(product.ID.String())
	assert.True(t, ok)
	assert.Equal(t, 25.0, got.OfferPrice)

	product.OfferPrice = 19.99
	store.Upsert(product)

	got, _ = store.Lookup(product.ID.String())
	assert.Equal(t, 19.99, got.OfferPrice)
	assert.Equal(t, 1, store.Len())
}

func TestLookupMissing(t *testing.T) {
	store := catalog.NewStore()

	_, ok := store.Lookup(uuid.NewString())
	assert.False(t, ok)
}

func TestSubscribe(t *testing.T) {
	store := catalog.NewStore()
	changes := store.Subscribe()

	store.Upsert(models.Product{ID: uuid.New()})

	select {
	case <-changes:
	default:
		t.Fatal("expected a change notification after upsert")
	}

	// Notifications are lossy: several changes without a drain collapse into
	// one pending signal, and the store never blocks.
	store.Upsert(models.Product{ID: uuid.New()})
	store.Upsert(models.Product{ID: uuid.New()})
	store.Replace(nil)

	<-changes

	select {
	case <-changes:
		t.Fatal("expected at most one pending notification")
	default:
	}
}
