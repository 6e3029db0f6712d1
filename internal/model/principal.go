package model

import "github.com/google/uuid"

// Principal is the authenticated caller extracted from the access token.
// Authentication itself is an external collaborator; only the role matters
// here: estimators mutate estimates, viewers read.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

const (
	RoleEstimator = "estimator"
	RoleViewer    = "viewer"
)

func (p Principal) IsEstimator() bool {
	return p.Role == RoleEstimator
}
