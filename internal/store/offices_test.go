package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/assetdesk/internal/db"
	"github.com/erazemk/assetdesk/internal/model"
)

func TestDefaultOffice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	o, err := GetDefaultOffice(ctx, database)
	require.NoError(t, err)
	require.Nil(t, o)

	_, err = SetDefaultOffice(ctx, database, &model.Office{Name: "HQ", City: "Maribor"})
	require.NoError(t, err)
	o, err = SetDefaultOffice(ctx, database, &model.Office{Name: "HQ", City: "Koper", Phone: "123"})
	require.NoError(t, err)
	assert.Equal(t, "Koper", o.City)
	assert.Equal(t, "123", o.Phone)
	assert.Equal(t, model.LocationOffice, o.Location)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM offices`).Scan(&count))
	assert.Equal(t, 1, count, "default office is updated in place")

	got, err := Offices{DB: database}.DefaultOffice(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, o.ID, got.ID)
}
