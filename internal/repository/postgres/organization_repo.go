package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const organizationColumns = `o.id, o.name, o.timezone, o.created_at`

const getOrganizationByID = `
SELECT ` + organizationColumns + ` FROM organizations o WHERE o.id = $1`

const getOrganizationByMemberAuth0ID = `
SELECT ` + organizationColumns + `
FROM organizations o
JOIN organization_members m ON m.organization_id = o.id
WHERE m.auth0_id = $1
ORDER BY m.created_at
LIMIT 1`

const listOrganizations = `
SELECT ` + organizationColumns + ` FROM organizations o ORDER BY o.created_at`

// OrganizationRepository implements domain.OrganizationRepository using PostgreSQL
type OrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

// GetByID retrieves an organization by its ID
func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	org, err := scanOrganization(r.pool.QueryRow(ctx, getOrganizationByID, pgtype.UUID{Bytes: id, Valid: true}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

// GetByMemberAuth0ID retrieves the organization of an authenticated member
func (r *OrganizationRepository) GetByMemberAuth0ID(ctx context.Context, auth0ID string) (*domain.Organization, error) {
	org, err := scanOrganization(r.pool.QueryRow(ctx, getOrganizationByMemberAuth0ID, auth0ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("get organization by member: %w", err)
	}
	return org, nil
}

// GetOrganizationByAuth0ID resolves the organization ID of a member (websocket.OrganizationLookup)
func (r *OrganizationRepository) GetOrganizationByAuth0ID(ctx context.Context, auth0ID string) (uuid.UUID, error) {
	org, err := r.GetByMemberAuth0ID(ctx, auth0ID)
	if err != nil {
		return uuid.Nil, err
	}
	return org.ID, nil
}

// ListAll returns every organization
func (r *OrganizationRepository) ListAll(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.pool.Query(ctx, listOrganizations)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var result []*domain.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		result = append(result, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read organizations: %w", err)
	}
	return result, nil
}

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var id pgtype.UUID
	var name, timezone pgtype.Text
	var createdAt pgtype.Timestamptz
	if err := row.Scan(&id, &name, &timezone, &createdAt); err != nil {
		return nil, err
	}
	return &domain.Organization{
		ID:        id.Bytes,
		Name:      name.String,
		Timezone:  timezone.String,
		CreatedAt: createdAt.Time,
	}, nil
}
