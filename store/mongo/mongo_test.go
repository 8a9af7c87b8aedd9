package mongo

import (
	"context"
	"os"
	"testing"

	"propertyexpenses/store"
	"propertyexpenses/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestMongoStore needs a reachable server, e.g.
// TEST_MONGO_URL=mongodb://localhost:27017
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URL")
	if uri == "" {
		t.Skip("TEST_MONGO_URL not set")
	}

	suite.Run(t, &storetest.Suite{
		NewStore: func() (store.Store, error) {
			ctx := context.Background()
			s, err := Open(ctx, uri, "expenses_test")
			if err != nil {
				return nil, err
			}
			if _, err := s.expenses.DeleteMany(ctx, map[string]any{}); err != nil {
				s.Close()
				return nil, err
			}
			if _, err := s.properties.DeleteMany(ctx, map[string]any{}); err != nil {
				s.Close()
				return nil, err
			}
			return s, nil
		},
		MissingID: primitive.NewObjectID().Hex(),
	})
}

func TestObjectID(t *testing.T) {
	t.Run("should treat malformed ids as not found", func(t *testing.T) {
		_, err := objectID("not-an-id")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("should parse hex ids", func(t *testing.T) {
		want := primitive.NewObjectID()
		got, err := objectID(want.Hex())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
