package data

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plantColumns = []string{"plant_code", "plant_name", "plant_location", "plant_country", "latitude", "longitude"}

func TestListPlants(t *testing.T) {
	t.Run("maps rows in order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		lat, lon := 13.7563, 100.5018
		mock.ExpectQuery(`(?is)SELECT plant_code, plant_name.*FROM "plants".*ORDER BY plant_code`).
			WillReturnRows(pgxmock.NewRows(plantColumns).
				AddRow("BkkP", "Bangkok", "Bangkok", "TH", &lat, &lon).
				AddRow("HmjP", "Hemaraj", "Rayong", "TH", nil, nil))

		plants, err := listPlants(context.Background(), mock, "plants")
		require.NoError(t, err)
		require.Len(t, plants, 2)
		assert.Equal(t, "BkkP", plants[0].PlantCode)
		assert.Equal(t, "Bangkok", plants[0].Name)
		require.NotNil(t, plants[0].Latitude)
		assert.InDelta(t, 13.7563, *plants[0].Latitude, 1e-9)
		assert.Equal(t, "HmjP", plants[1].PlantCode)
		assert.Nil(t, plants[1].Longitude)
		assert.False(t, plants[1].IsDefault)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table yields empty slice", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`(?is)FROM "plants"`).WillReturnRows(pgxmock.NewRows(plantColumns))

		plants, err := listPlants(context.Background(), mock, "plants")
		require.NoError(t, err)
		assert.NotNil(t, plants)
		assert.Empty(t, plants)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("schema qualified table is quoted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`(?is)FROM "ref"\."plant_master"`).WillReturnRows(pgxmock.NewRows(plantColumns))

		_, err = listPlants(context.Background(), mock, "ref.plant_master")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error is wrapped", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		boom := errors.New("connection reset")
		mock.ExpectQuery(`(?is)FROM "plants"`).WillReturnError(boom)

		_, err = listPlants(context.Background(), mock, "plants")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuoteTable(t *testing.T) {
	assert.Equal(t, `"plants"`, quoteTable("plants"))
	assert.Equal(t, `"nav"."user_profiles"`, quoteTable("nav.user_profiles"))
}

func TestPlantRepo_NoDatabase(t *testing.T) {
	_, err := NewPlantRepo(nil, "").List(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
}
