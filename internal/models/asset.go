package models

import "time"

// AssetScope distinguishes personal uploads from department-owned files.
type AssetScope string

const (
	AssetScopePersonal   AssetScope = "PERSONAL"
	AssetScopeDepartment AssetScope = "DEPARTMENT"
)

// AssetInput carries the form fields of a new upload. A department ID
// switches the scope from personal to department-owned.
type AssetInput struct {
	Notes        string `form:"notes" json:"notes"`
	DepartmentID string `form:"department_id" json:"department_id"`
}

// Asset is an internally shared file stored on the local filesystem.
type Asset struct {
	ID           string     `json:"id"`
	OriginalName string     `json:"original_name"`
	StoredName   string     `json:"stored_name"`
	Notes        string     `json:"notes"`
	Owner        string     `json:"owner"`
	DepartmentID string     `json:"department_id,omitempty"`
	Scope        AssetScope `json:"scope"`
	UploadedAt   time.Time  `json:"uploaded_at"`
}
