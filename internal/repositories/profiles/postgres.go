package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/dbx"
	"github.com/dmitrijs2005/onboard/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// encodePhotoURLs maps a nil list to SQL NULL so "no photos" stays distinct
// from an empty array.
func encodePhotoURLs(urls []string) (any, error) {
	if urls == nil {
		return nil, nil
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func decodePhotoURLs(raw []byte) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal(raw, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *PostgresRepository) GetByAuthID(ctx context.Context, authID string) (*models.Profile, error) {
	query :=
		`SELECT id, auth_id, email, role, name, class_year, major, bio, contact_preference,
		        gender, gender_preference, vibe, location, latitude, longitude, photo_urls,
		        profile_complete, created_at, updated_at
		 FROM profiles
		 WHERE auth_id = $1
		 `

	p := &models.Profile{}
	var photos []byte
	err := r.db.QueryRowContext(ctx, query, authID).Scan(
		&p.ID, &p.AuthID, &p.Email, &p.Role, &p.Name, &p.ClassYear, &p.Major, &p.Bio,
		&p.ContactPreference, &p.Gender, &p.GenderPreference, &p.Vibe, &p.Location,
		&p.Latitude, &p.Longitude, &photos, &p.ProfileComplete, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if p.PhotoURLs, err = decodePhotoURLs(photos); err != nil {
		return nil, fmt.Errorf("decode photo urls: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	photos, err := encodePhotoURLs(p.PhotoURLs)
	if err != nil {
		return nil, fmt.Errorf("encode photo urls: %w", err)
	}

	query :=
		`INSERT INTO profiles (auth_id, email, role, name, class_year, major, bio, contact_preference,
		                       gender, gender_preference, vibe, location, latitude, longitude,
		                       photo_urls, profile_complete)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		p.AuthID, p.Email, p.Role, p.Name, p.ClassYear, p.Major, p.Bio, p.ContactPreference,
		p.Gender, p.GenderPreference, p.Vibe, p.Location, p.Latitude, p.Longitude,
		photos, p.ProfileComplete).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

// Update overwrites the editable columns of the record identified by AuthID.
// Role and created_at are left untouched.
func (r *PostgresRepository) Update(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	photos, err := encodePhotoURLs(p.PhotoURLs)
	if err != nil {
		return nil, fmt.Errorf("encode photo urls: %w", err)
	}

	query :=
		`UPDATE profiles
		 SET email = $2, name = $3, class_year = $4, major = $5, bio = $6, contact_preference = $7,
		     gender = $8, gender_preference = $9, vibe = $10, location = $11, latitude = $12,
		     longitude = $13, photo_urls = $14, profile_complete = $15, updated_at = now()
		 WHERE auth_id = $1
		 RETURNING id, role, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		p.AuthID, p.Email, p.Name, p.ClassYear, p.Major, p.Bio, p.ContactPreference,
		p.Gender, p.GenderPreference, p.Vibe, p.Location, p.Latitude, p.Longitude,
		photos, p.ProfileComplete).Scan(&p.ID, &p.Role, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}
