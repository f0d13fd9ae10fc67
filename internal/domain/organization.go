package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant that owns every financial fact
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrganizationRepository defines lookups for organizations
type OrganizationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	GetByMemberAuth0ID(ctx context.Context, auth0ID string) (*Organization, error)
	ListAll(ctx context.Context) ([]*Organization, error)
}
