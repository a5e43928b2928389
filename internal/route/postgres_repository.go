package route

import (
	"context"
	"errors"

	"backend-cityguide/internal/db"

	"github.com/jackc/pgx/v5"
)

// PostgresRepository persists route drafts through a pgx Querier, so it
// works against a pgxpool.Pool in production and pgxmock in tests.
type PostgresRepository struct {
	db db.Querier
}

func NewPostgresRepository(q db.Querier) *PostgresRepository {
	return &PostgresRepository{db: q}
}

func (r *PostgresRepository) CreateDraft(ctx context.Context, draft *RouteDraft) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO route_drafts (id, user_id, city, language, duration_min, transport_mode, status, payload)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at
	`, draft.ID, draft.UserID, draft.City, draft.Language, draft.DurationMin, draft.TransportMode, draft.Status, draft.Payload)
	return row.Scan(&draft.CreatedAt, &draft.UpdatedAt)
}

func (r *PostgresRepository) GetDraft(ctx context.Context, id string) (*RouteDraft, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, city, language, duration_min, transport_mode, status, payload, created_at, updated_at
		FROM route_drafts WHERE id=$1
	`, id)
	var draft RouteDraft
	if err := row.Scan(&draft.ID, &draft.UserID, &draft.City, &draft.Language, &draft.DurationMin,
		&draft.TransportMode, &draft.Status, &draft.Payload, &draft.CreatedAt, &draft.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}

	points, err := r.listPoints(ctx, draft.ID)
	if err != nil {
		return nil, err
	}
	draft.Points = points
	return &draft, nil
}

func (r *PostgresRepository) ListDraftsForUser(ctx context.Context, userID string) ([]*RouteDraft, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, city, language, duration_min, transport_mode, status, payload, created_at, updated_at
		FROM route_drafts WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*RouteDraft
	for rows.Next() {
		var d RouteDraft
		if err := rows.Scan(&d.ID, &d.UserID, &d.City, &d.Language, &d.DurationMin,
			&d.TransportMode, &d.Status, &d.Payload, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		drafts = append(drafts, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, d := range drafts {
		points, err := r.listPoints(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		d.Points = points
	}
	return drafts, nil
}

func (r *PostgresRepository) UpdateDraft(ctx context.Context, draft *RouteDraft) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE route_drafts
		SET city=$2, language=$3, duration_min=$4, transport_mode=$5, status=$6, payload=$7, updated_at=now()
		WHERE id=$1
	`, draft.ID, draft.City, draft.Language, draft.DurationMin, draft.TransportMode, draft.Status, draft.Payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// ReplacePoints swaps the full point set inside one transaction so a
// concurrent reader never sees old and new points mixed.
func (r *PostgresRepository) ReplacePoints(ctx context.Context, routeID string, points []RoutePoint) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM route_points WHERE route_id=$1`, routeID); err != nil {
		return err
	}

	for _, p := range points {
		_, err := tx.Exec(ctx, `
			INSERT INTO route_points (id, route_id, poi_id, name, lat, lng, category, order_index,
				eta_min_walk, eta_min_drive, listen_sec, source_poi_id)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`, p.ID, routeID, p.POIID, p.Name, p.Lat, p.Lng, p.Category, p.OrderIndex,
			p.ETAMinWalk, p.ETAMinDrive, p.ListenSec, p.SourcePOIID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) DeleteDraft(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM route_drafts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func (r *PostgresRepository) listPoints(ctx context.Context, routeID string) ([]RoutePoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, route_id, poi_id, name, lat, lng, category, order_index,
			eta_min_walk, eta_min_drive, listen_sec, COALESCE(source_poi_id, '')
		FROM route_points WHERE route_id=$1
		ORDER BY order_index
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]RoutePoint, 0, 8)
	for rows.Next() {
		var p RoutePoint
		if err := rows.Scan(&p.ID, &p.RouteID, &p.POIID, &p.Name, &p.Lat, &p.Lng, &p.Category,
			&p.OrderIndex, &p.ETAMinWalk, &p.ETAMinDrive, &p.ListenSec, &p.SourcePOIID); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
