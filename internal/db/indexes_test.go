package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/models"
)

func TestIndexModels(t *testing.T) {
	indexes := IndexModels(7 * 24 * time.Hour)

	leads := indexes[models.LeadsCollection]
	require.Len(t, leads, 1)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, leads[0].Keys)
	require.NotNil(t, leads[0].Options.ExpireAfterSeconds)
	assert.Equal(t, int32(604800), *leads[0].Options.ExpireAfterSeconds)

	content := indexes[models.PageContentCollection]
	require.Len(t, content, 1)
	assert.Equal(t, bson.D{{Key: "id", Value: 1}}, content[0].Keys)
	require.NotNil(t, content[0].Options.Unique)
	assert.True(t, *content[0].Options.Unique)
}

func TestIndexModels_CustomTTL(t *testing.T) {
	leads := IndexModels(90 * time.Second)[models.LeadsCollection]
	assert.Equal(t, int32(90), *leads[0].Options.ExpireAfterSeconds)
}

func TestClientOptions(t *testing.T) {
	opts := ClientOptions("mongodb://localhost:27017/remotage")

	require.NotNil(t, opts.BSONOptions)
	assert.True(t, opts.BSONOptions.DefaultDocumentM)
	require.NotNil(t, opts.ServerSelectionTimeout)
	assert.Equal(t, 10*time.Second, *opts.ServerSelectionTimeout)
}
