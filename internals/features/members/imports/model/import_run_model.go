// file: internals/features/members/imports/model/import_run_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ImportRunRunning   = "running"
	ImportRunCompleted = "completed"
	ImportRunFailed    = "failed"
)

// ImportRunModel: satu kali upload file import beserta ringkasannya.
type ImportRunModel struct {
	ImportRunID                    uuid.UUID      `gorm:"type:uuid;primaryKey;column:import_run_id" json:"import_run_id"`
	ImportRunFileName              string         `gorm:"type:text;not null;column:import_run_file_name" json:"import_run_file_name"`
	ImportRunSheet                 string         `gorm:"type:text;column:import_run_sheet" json:"import_run_sheet"`
	ImportRunMode                  string         `gorm:"type:varchar(10);not null;column:import_run_mode" json:"import_run_mode"`
	ImportRunCreateBranchIfMissing bool           `gorm:"not null;column:import_run_create_branch_if_missing" json:"import_run_create_branch_if_missing"`
	ImportRunForceAdminBranch      bool           `gorm:"not null;column:import_run_force_admin_branch" json:"import_run_force_admin_branch"`
	ImportRunStatus                string         `gorm:"type:varchar(12);not null;index:idx_import_runs_status;column:import_run_status" json:"import_run_status"`
	ImportRunTotalRows             int            `gorm:"not null;column:import_run_total_rows" json:"import_run_total_rows"`
	ImportRunInserted              int            `gorm:"not null;column:import_run_inserted" json:"import_run_inserted"`
	ImportRunUpdated               int            `gorm:"not null;column:import_run_updated" json:"import_run_updated"`
	ImportRunDuplicate             int            `gorm:"not null;column:import_run_duplicate" json:"import_run_duplicate"`
	ImportRunInvalid               int            `gorm:"not null;column:import_run_invalid" json:"import_run_invalid"`
	ImportRunCabangError           int            `gorm:"not null;column:import_run_cabang_error" json:"import_run_cabang_error"`
	ImportRunSystemError           int            `gorm:"not null;column:import_run_system_error" json:"import_run_system_error"`
	ImportRunErrors                datatypes.JSON `gorm:"column:import_run_errors" json:"import_run_errors,omitempty"`
	ImportRunUnmappedHeaders       datatypes.JSON `gorm:"column:import_run_unmapped_headers" json:"import_run_unmapped_headers,omitempty"`
	ImportRunMessage               *string        `gorm:"type:text;column:import_run_message" json:"import_run_message,omitempty"`
	ImportRunBranchID              *uuid.UUID     `gorm:"type:uuid;index:idx_import_runs_branch;column:import_run_branch_id" json:"import_run_branch_id,omitempty"`
	ImportRunCreatedBy             *uuid.UUID     `gorm:"type:uuid;column:import_run_created_by" json:"import_run_created_by,omitempty"`
	ImportRunFinishedAt            *time.Time     `gorm:"column:import_run_finished_at" json:"import_run_finished_at,omitempty"`
	ImportRunCreatedAt             time.Time      `gorm:"autoCreateTime;column:import_run_created_at" json:"import_run_created_at"`
	ImportRunUpdatedAt             time.Time      `gorm:"autoUpdateTime;column:import_run_updated_at" json:"import_run_updated_at"`
}

func (ImportRunModel) TableName() string { return "import_runs" }

func (m *ImportRunModel) BeforeCreate(tx *gorm.DB) error {
	if m.ImportRunID == uuid.Nil {
		m.ImportRunID = uuid.New()
	}
	return nil
}
