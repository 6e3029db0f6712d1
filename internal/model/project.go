package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusDraft       ProjectStatus = "draft"
	ProjectStatusOffering    ProjectStatus = "offering"
	ProjectStatusInExecution ProjectStatus = "in_execution"
	ProjectStatusClosed      ProjectStatus = "closed"
	ProjectStatusRejected    ProjectStatus = "rejected"
)

// Project is a fit-out project whose cost estimate lives in revisions.
// AcceptedRevisionID points at the single revision that is the project's
// source of truth once it enters execution.
type Project struct {
	ID                 uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Name               string        `json:"name" gorm:"size:200;not null"`
	Status             ProjectStatus `json:"status" gorm:"size:20;not null;default:draft"`
	AcceptedRevisionID *uuid.UUID    `json:"accepted_revision_id" gorm:"type:uuid"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// Revision is a versioned snapshot of all cost positions for a project.
// Number is unique and monotonically increasing per project. A locked
// revision's positions are immutable except through reset-to-library and
// the lifecycle transitions themselves.
type Revision struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID  uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:uq_revision_number,priority:1"`
	Number     int        `json:"number" gorm:"not null;uniqueIndex:uq_revision_number,priority:2"`
	Name       string     `json:"name" gorm:"size:200"`
	IsLocked   bool       `json:"is_locked" gorm:"not null;default:false"`
	LockedAt   *time.Time `json:"locked_at"`
	IsAccepted bool       `json:"is_accepted" gorm:"not null;default:false"`
	AcceptedAt *time.Time `json:"accepted_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Positions []CostPosition `json:"positions,omitempty" gorm:"foreignKey:RevisionID"`
}

func (Revision) TableName() string {
	return "revisions"
}
