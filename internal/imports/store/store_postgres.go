package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"census/internal/imports/models"
	"census/internal/imports/relations"
	"census/internal/imports/stats"
	"census/pkg/domain"
)

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// PostgresStore persists imports in the "imports" schema.
type PostgresStore struct {
	db *sqlx.DB
	q  queryer
}

// NewPostgres constructs a store running each statement on its own connection.
func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

// NewPostgresTx constructs a store bound to an open transaction.
func NewPostgresTx(tx *sqlx.Tx) *PostgresStore {
	return &PostgresStore{q: tx}
}

// LockImport takes a transaction-scoped advisory lock on the import id. It blocks
// until concurrent holders commit or roll back.
func (s *PostgresStore) LockImport(ctx context.Context, importID domain.ImportID) error {
	if _, err := s.q.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(importID)); err != nil {
		return fmt.Errorf("lock import: %w", err)
	}
	return nil
}

func (s *PostgresStore) NextImportID(ctx context.Context) (domain.ImportID, error) {
	var id int64
	if err := s.q.GetContext(ctx, &id, `SELECT nextval('imports.import_id')`); err != nil {
		return 0, fmt.Errorf("next import id: %w", err)
	}
	return domain.ImportID(id), nil
}

// InsertCitizens writes citizen rows and the expanded relation edges with two
// unnest statements. Outside a transaction it opens its own.
func (s *PostgresStore) InsertCitizens(ctx context.Context, importID domain.ImportID, citizens []models.Citizen) error {
	if s.db == nil {
		return insertCitizens(ctx, s.q, importID, citizens)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert citizens: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := insertCitizens(ctx, tx, importID, citizens); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert citizens: %w", err)
	}
	return nil
}

func insertCitizens(ctx context.Context, q sqlx.ExecerContext, importID domain.ImportID, citizens []models.Citizen) error {
	n := len(citizens)
	var (
		ids        = make([]int64, 0, n)
		towns      = make([]string, 0, n)
		streets    = make([]string, 0, n)
		buildings  = make([]string, 0, n)
		apartments = make([]int64, 0, n)
		names      = make([]string, 0, n)
		births     = make([]string, 0, n)
		genders    = make([]string, 0, n)
		nodes      = make([]relations.Node, 0, n)
	)
	for _, c := range citizens {
		ids = append(ids, int64(c.CitizenID))
		towns = append(towns, c.Town)
		streets = append(streets, c.Street)
		buildings = append(buildings, c.Building)
		apartments = append(apartments, c.Apartment)
		names = append(names, c.Name)
		births = append(births, c.BirthDate.Format("2006-01-02"))
		genders = append(genders, string(c.Gender))
		nodes = append(nodes, relations.Node{ID: c.CitizenID, Relatives: c.Relatives})
	}

	query := `
		INSERT INTO imports.citizen (
			import_id, citizen_id, town, street, building, apartment, name, birth_date, gender
		)
		SELECT $1, u.citizen_id, u.town, u.street, u.building, u.apartment, u.name, u.birth_date, u.gender
		FROM unnest($2::bigint[], $3::text[], $4::text[], $5::text[], $6::bigint[], $7::text[], $8::date[], $9::text[])
			AS u(citizen_id, town, street, building, apartment, name, birth_date, gender)
	`
	_, err := q.ExecContext(ctx, query, int64(importID),
		pq.Array(ids), pq.Array(towns), pq.Array(streets), pq.Array(buildings),
		pq.Array(apartments), pq.Array(names), pq.Array(births), pq.Array(genders))
	if err != nil {
		return fmt.Errorf("insert citizens: %w", translatePQ(err))
	}

	edges := relations.Edges(nodes)
	if len(edges) == 0 {
		return nil
	}
	from := make([]int64, 0, len(edges))
	to := make([]int64, 0, len(edges))
	for _, e := range edges {
		from = append(from, int64(e.From))
		to = append(to, int64(e.To))
	}
	query = `
		INSERT INTO imports.relation (import_id, citizen_id, relative, is_active)
		SELECT $1, u.citizen_id, u.relative, TRUE
		FROM unnest($2::bigint[], $3::bigint[]) AS u(citizen_id, relative)
	`
	if _, err := q.ExecContext(ctx, query, int64(importID), pq.Array(from), pq.Array(to)); err != nil {
		return fmt.Errorf("insert relations: %w", translatePQ(err))
	}
	return nil
}

func (s *PostgresStore) CitizenIDs(ctx context.Context, importID domain.ImportID) ([]domain.CitizenID, error) {
	var ids []domain.CitizenID
	query := `SELECT citizen_id FROM imports.citizen WHERE import_id = $1 ORDER BY citizen_id`
	if err := s.q.SelectContext(ctx, &ids, query, int64(importID)); err != nil {
		return nil, fmt.Errorf("select citizen ids: %w", err)
	}
	return ids, nil
}

// citizenRow carries the aggregated active relatives next to the citizen columns.
type citizenRow struct {
	models.Citizen
	RelativeIDs pq.Int64Array `db:"relatives"`
}

func (r citizenRow) toModel() *models.Citizen {
	c := r.Citizen
	c.Relatives = make([]domain.CitizenID, 0, len(r.RelativeIDs))
	for _, id := range r.RelativeIDs {
		c.Relatives = append(c.Relatives, domain.CitizenID(id))
	}
	return &c
}

const selectCitizens = `
	SELECT c.import_id, c.citizen_id, c.town, c.street, c.building, c.apartment,
		c.name, c.birth_date, c.gender,
		COALESCE(
			array_agg(r.relative ORDER BY r.relative) FILTER (WHERE r.relative IS NOT NULL),
			'{}'
		) AS relatives
	FROM imports.citizen c
	LEFT JOIN imports.relation r
		ON r.import_id = c.import_id AND r.citizen_id = c.citizen_id AND r.is_active
`

func (s *PostgresStore) FindCitizen(ctx context.Context, importID domain.ImportID, citizenID domain.CitizenID) (*models.Citizen, error) {
	var row citizenRow
	query := selectCitizens + `
		WHERE c.import_id = $1 AND c.citizen_id = $2
		GROUP BY c.import_id, c.citizen_id
	`
	if err := s.q.GetContext(ctx, &row, query, int64(importID), int64(citizenID)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find citizen: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) ListCitizens(ctx context.Context, importID domain.ImportID) ([]*models.Citizen, error) {
	var rows []citizenRow
	query := selectCitizens + `
		WHERE c.import_id = $1
		GROUP BY c.import_id, c.citizen_id
		ORDER BY c.citizen_id
	`
	if err := s.q.SelectContext(ctx, &rows, query, int64(importID)); err != nil {
		return nil, fmt.Errorf("list citizens: %w", err)
	}
	out := make([]*models.Citizen, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *PostgresStore) UpdateCitizen(ctx context.Context, citizen *models.Citizen) error {
	query := `
		UPDATE imports.citizen SET
			town = $3,
			street = $4,
			building = $5,
			apartment = $6,
			name = $7,
			birth_date = $8,
			gender = $9
		WHERE import_id = $1 AND citizen_id = $2
	`
	res, err := s.q.ExecContext(ctx, query,
		int64(citizen.ImportID), int64(citizen.CitizenID),
		citizen.Town, citizen.Street, citizen.Building, citizen.Apartment,
		citizen.Name, citizen.BirthDate, string(citizen.Gender))
	if err != nil {
		return fmt.Errorf("update citizen: %w", translatePQ(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update citizen: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update citizen %d: %w", citizen.CitizenID, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) SetRelation(ctx context.Context, importID domain.ImportID, citizenID, relative domain.CitizenID, active bool) error {
	query := `
		INSERT INTO imports.relation (import_id, citizen_id, relative, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (import_id, citizen_id, relative) DO UPDATE SET
			is_active = EXCLUDED.is_active
	`
	if _, err := s.q.ExecContext(ctx, query, int64(importID), int64(citizenID), int64(relative), active); err != nil {
		return fmt.Errorf("set relation: %w", translatePQ(err))
	}
	return nil
}

func (s *PostgresStore) ImportIDs(ctx context.Context) ([]domain.ImportID, error) {
	ids := []domain.ImportID{}
	query := `SELECT DISTINCT import_id FROM imports.citizen ORDER BY import_id`
	if err := s.q.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("select import ids: %w", err)
	}
	return ids, nil
}

type birthdayRow struct {
	Month     int              `db:"month"`
	CitizenID domain.CitizenID `db:"citizen_id"`
	Presents  int              `db:"presents"`
}

// BirthdayPresents counts, per month and buyer, the active relatives born in that month.
func (s *PostgresStore) BirthdayPresents(ctx context.Context, importID domain.ImportID) (models.BirthdayReport, error) {
	var rows []birthdayRow
	query := `
		SELECT EXTRACT(MONTH FROM rel.birth_date)::int AS month,
			r.citizen_id,
			count(*) AS presents
		FROM imports.relation r
		JOIN imports.citizen rel
			ON rel.import_id = r.import_id AND rel.citizen_id = r.relative
		WHERE r.import_id = $1 AND r.is_active
		GROUP BY 1, r.citizen_id
		ORDER BY 1, r.citizen_id
	`
	if err := s.q.SelectContext(ctx, &rows, query, int64(importID)); err != nil {
		return nil, fmt.Errorf("select birthday presents: %w", err)
	}
	report := models.NewBirthdayReport()
	for _, r := range rows {
		report.Add(r.Month, models.BirthdayPresents{CitizenID: r.CitizenID, Presents: r.Presents})
	}
	return report, nil
}

// TownAgePercentiles computes age percentiles per town as of today.
func (s *PostgresStore) TownAgePercentiles(ctx context.Context, importID domain.ImportID, today models.Date) ([]models.TownAgeStat, error) {
	var rows []models.TownAgeStat
	query := `
		SELECT town,
			percentile_cont(0.50) WITHIN GROUP (ORDER BY age) AS p50,
			percentile_cont(0.75) WITHIN GROUP (ORDER BY age) AS p75,
			percentile_cont(0.99) WITHIN GROUP (ORDER BY age) AS p99
		FROM (
			SELECT town, date_part('year', age($2::date, birth_date)) AS age
			FROM imports.citizen
			WHERE import_id = $1
		) ages
		GROUP BY town
		ORDER BY town COLLATE "C"
	`
	if err := s.q.SelectContext(ctx, &rows, query, int64(importID), today); err != nil {
		return nil, fmt.Errorf("select town ages: %w", err)
	}
	for i := range rows {
		rows[i].P50 = stats.Round2(rows[i].P50)
		rows[i].P75 = stats.Round2(rows[i].P75)
		rows[i].P99 = stats.Round2(rows[i].P99)
	}
	if rows == nil {
		rows = []models.TownAgeStat{}
	}
	return rows, nil
}

// Ping checks connectivity for health probes.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}
