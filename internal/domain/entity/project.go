package entity

import (
	"time"

	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// Project is a foundation repair job at one property
type Project struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	ClientName     string          `json:"client_name"`
	Address        string          `json:"address"`
	Status         workflow.Status `json:"status"`
	ProductIDs     []string        `json:"product_ids"`
	ProductionDays int             `json:"production_days"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Task is a scheduled unit of field work on a project
type Task struct {
	ID           int64           `json:"id"`
	ProjectID    int64           `json:"project_id"`
	Title        string          `json:"title"`
	AssignedTo   string          `json:"assigned_to,omitempty"`
	Status       workflow.Status `json:"status"`
	ScheduledFor *time.Time      `json:"scheduled_for,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Deliverable is a document produced for the client, such as an inspection report
type Deliverable struct {
	ID        int64           `json:"id"`
	ProjectID int64           `json:"project_id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Status    workflow.Status `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
