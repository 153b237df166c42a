package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"naimuBack/internal/models"
)

type ProfessionalRepository struct {
	DB *sql.DB
}

const proSelect = `
        SELECT id, latitude, longitude, service_radius_km, rating, review_count,
               response_rate, response_time_hours, verified
        FROM pros`

func scanPro(row rowScanner) (models.Professional, error) {
	var p models.Professional
	err := row.Scan(&p.ID, &p.Latitude, &p.Longitude, &p.ServiceRadiusKM, &p.Rating, &p.ReviewCount,
		&p.ResponseRate, &p.ResponseTimeH, &p.Verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Professional{}, models.ErrProNotFound
		}
		return models.Professional{}, err
	}
	return p, nil
}

func (r *ProfessionalRepository) GetProByID(ctx context.Context, id int) (models.Professional, error) {
	p, err := scanPro(r.DB.QueryRowContext(ctx, proSelect+` WHERE id = ?`, id))
	if err != nil {
		return models.Professional{}, err
	}
	if err := r.loadCategories(ctx, []int{id}, map[int]*models.Professional{id: &p}); err != nil {
		return models.Professional{}, err
	}
	return p, nil
}

// GetProsByIDs fetches profiles preserving the order of ids, typically the
// distance-sorted output of the geo locator.
func (r *ProfessionalRepository) GetProsByIDs(ctx context.Context, ids []int) ([]models.Professional, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := proSelect + ` WHERE id IN (?` + strings.Repeat(", ?", len(ids)-1) + `)`
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int]*models.Professional, len(ids))
	for rows.Next() {
		p, err := scanPro(rows)
		if err != nil {
			return nil, err
		}
		byID[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadCategories(ctx, ids, byID); err != nil {
		return nil, err
	}

	pros := make([]models.Professional, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			pros = append(pros, *p)
		}
	}
	return pros, nil
}

// GetProsByCategory fetches every professional serving the category.
func (r *ProfessionalRepository) GetProsByCategory(ctx context.Context, categoryID int) ([]models.Professional, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT pro_id FROM pro_categories WHERE category_id = ? ORDER BY pro_id`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.GetProsByIDs(ctx, ids)
}

// EmailByID resolves the account email used in the fan-out envelopes.
func (r *ProfessionalRepository) EmailByID(ctx context.Context, id int) (string, error) {
	var email string
	err := r.DB.QueryRowContext(ctx, `SELECT email FROM users WHERE id = ?`, id).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.ErrProNotFound
		}
		return "", err
	}
	return email, nil
}

func (r *ProfessionalRepository) loadCategories(ctx context.Context, ids []int, byID map[int]*models.Professional) error {
	if len(ids) == 0 {
		return nil
	}
	query := `SELECT pro_id, category_id, years FROM pro_categories WHERE pro_id IN (?` + strings.Repeat(", ?", len(ids)-1) + `)`
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var proID int
		var ce models.CategoryExperience
		if err := rows.Scan(&proID, &ce.CategoryID, &ce.Years); err != nil {
			return err
		}
		if p, ok := byID[proID]; ok {
			p.Categories = append(p.Categories, ce)
		}
	}
	return rows.Err()
}
