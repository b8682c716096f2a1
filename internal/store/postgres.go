package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const storeColumns = `store_id, store_name, take_out_in_store, shipping_time_in_days,
    latitude, longitude, address1, address2, address3, city, district, state,
    type, country, postal_code, telephone_number, email_address, geohash,
    created_at, updated_at`

type RepositoryPgx struct {
	db *pgxpool.Pool
}

func NewRepositoryPgx(db *pgxpool.Pool) *RepositoryPgx {
	return &RepositoryPgx{db: db}
}

func (r *RepositoryPgx) Create(ctx context.Context, s Store) (Store, error) {
	if err := s.Normalize(); err != nil {
		return Store{}, err
	}
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, `
        INSERT INTO stores (`+storeColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)
        RETURNING created_at, updated_at`,
		s.StoreID, s.StoreName, *s.TakeOutInStore, s.ShippingTimeInDays,
		s.Latitude, s.Longitude, s.Address1, s.Address2, s.Address3, s.City, s.District, s.State,
		string(s.Type), s.Country, s.PostalCode, s.TelephoneNumber, s.EmailAddress, s.Geohash,
		now,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return Store{}, fmt.Errorf("%w: storeID %s", ErrConflict, s.StoreID)
		}
		return Store{}, err
	}
	return s, nil
}

func (r *RepositoryPgx) List(ctx context.Context, limit, offset int) (Page, error) {
	return r.page(ctx, "", nil, limit, offset)
}

func (r *RepositoryPgx) FindByID(ctx context.Context, storeID string) (Store, error) {
	rows, err := r.db.Query(ctx, `SELECT `+storeColumns+` FROM stores WHERE store_id = $1`, strings.TrimSpace(storeID))
	if err != nil {
		return Store{}, err
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanStore)
	if errors.Is(err, pgx.ErrNoRows) {
		return Store{}, ErrNotFound
	}
	return s, err
}

func (r *RepositoryPgx) FindByState(ctx context.Context, state string, limit, offset int) (Page, error) {
	return r.page(ctx, "state = $1", []any{strings.ToUpper(strings.TrimSpace(state))}, limit, offset)
}

func (r *RepositoryPgx) FindByPostalPrefix(ctx context.Context, prefix string, limit, offset int) (Page, error) {
	return r.page(ctx, "postal_code LIKE $1", []any{NormalizePostalCode(prefix) + "%"}, limit, offset)
}

func (r *RepositoryPgx) FindByRegion(ctx context.Context, region string) ([]Store, error) {
	return r.all(ctx, "state = $1", strings.ToUpper(strings.TrimSpace(region)))
}

func (r *RepositoryPgx) FindByGeohashPrefixes(ctx context.Context, prefixes []string) ([]Store, error) {
	patterns := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		patterns = append(patterns, p+"%")
	}
	return r.all(ctx, "geohash LIKE ANY($1)", patterns)
}

func (r *RepositoryPgx) All(ctx context.Context) ([]Store, error) {
	return r.all(ctx, "")
}

func (r *RepositoryPgx) all(ctx context.Context, where string, args ...any) ([]Store, error) {
	q := `SELECT ` + storeColumns + ` FROM stores`
	if where != "" {
		q += " WHERE " + where
	}
	rows, err := r.db.Query(ctx, q+" ORDER BY store_id", args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanStore)
}

func (r *RepositoryPgx) page(ctx context.Context, where string, args []any, limit, offset int) (Page, error) {
	filter := ""
	if where != "" {
		filter = " WHERE " + where
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM stores`+filter, args...).Scan(&total); err != nil {
		return Page{}, err
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM stores%s ORDER BY store_id LIMIT $%d OFFSET $%d`, storeColumns, filter, n+1, n+2)
	rows, err := r.db.Query(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return Page{}, err
	}
	stores, err := pgx.CollectRows(rows, scanStore)
	if err != nil {
		return Page{}, err
	}
	return Page{Stores: stores, Limit: limit, Offset: offset, Total: total}, nil
}

func scanStore(row pgx.CollectableRow) (Store, error) {
	var (
		s        Store
		takeOut  bool
		storeTyp string
	)
	err := row.Scan(
		&s.StoreID, &s.StoreName, &takeOut, &s.ShippingTimeInDays,
		&s.Latitude, &s.Longitude, &s.Address1, &s.Address2, &s.Address3, &s.City, &s.District, &s.State,
		&storeTyp, &s.Country, &s.PostalCode, &s.TelephoneNumber, &s.EmailAddress, &s.Geohash,
		&s.CreatedAt, &s.UpdatedAt,
	)
	s.TakeOutInStore = &takeOut
	s.Type = Type(storeTyp)
	return s, err
}
