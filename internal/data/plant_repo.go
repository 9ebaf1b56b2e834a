package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/sharednav/internal/core"
	"github.com/target/sharednav/internal/data/pgxutil"
	"github.com/target/sharednav/internal/domain/model"
	apperrors "github.com/target/sharednav/internal/errors"
)

// DefaultPlantTable is the reference table created by the bundled migrations.
const DefaultPlantTable = "plants"

var _ core.PlantRepository = (*PlantRepo)(nil)

// PlantRepo reads the plant reference list. It never caches.
type PlantRepo struct {
	DB    *sql.DB
	table string
}

// NewPlantRepo creates a PlantRepo reading from table (schema-qualified names allowed).
func NewPlantRepo(db *sql.DB, table string) *PlantRepo {
	if table == "" {
		table = DefaultPlantTable
	}
	return &PlantRepo{DB: db, table: table}
}

// List returns every plant ordered by plant code.
// Any failure is reported as a data source error.
func (r *PlantRepo) List(ctx context.Context) ([]model.Plant, error) {
	if r.DB == nil {
		return nil, apperrors.DataSource(ErrNoDatabase, "list plants")
	}
	var out []model.Plant
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var qerr error
		out, qerr = listPlants(ctx, conn, r.table)
		return qerr
	})
	if err != nil {
		return nil, apperrors.DataSource(apperrors.MapDBError(err), "list plants")
	}
	return out, nil
}

func listPlants(ctx context.Context, q querier, table string) ([]model.Plant, error) {
	query := fmt.Sprintf(`
		SELECT plant_code, plant_name,
			COALESCE(plant_location, ''), COALESCE(plant_country, ''),
			latitude, longitude
		FROM %s
		ORDER BY plant_code`, quoteTable(table))

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query plants: %w", err)
	}
	defer rows.Close()

	plants := make([]model.Plant, 0)
	for rows.Next() {
		var p model.Plant
		if err := rows.Scan(&p.PlantCode, &p.Name, &p.Location, &p.Country, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("scan plant: %w", err)
		}
		plants = append(plants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plants: %w", err)
	}
	return plants, nil
}
