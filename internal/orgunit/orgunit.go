package orgunit

import (
	"time"

	orgunitDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/orgunit"
)

type OrgUnit struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ParentID        *string   `json:"parent_id"`
	Name            string    `json:"name"`
	Role            *string   `json:"role"`
	SupervisorName  *string   `json:"supervisor_name"`
	SupervisorEmail *string   `json:"supervisor_email"`
	SupervisorPhone *string   `json:"supervisor_phone"`
	EmployeeCount   int       `json:"employee_count"`
	Level           *int      `json:"level"`
	SortIndex       int       `json:"sort_index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SameParent reports whether both units hang under the same parent (or both are roots).
func (o *OrgUnit) SameParent(other *OrgUnit) bool {
	if o.ParentID == nil || other.ParentID == nil {
		return o.ParentID == nil && other.ParentID == nil
	}
	return *o.ParentID == *other.ParentID
}

// ChildLevel is the level a child created under o receives.
func (o *OrgUnit) ChildLevel() int {
	if o == nil || o.Level == nil {
		return 2
	}
	return *o.Level + 1
}

func ToDataModel(o *OrgUnit) *orgunitDatamodel.OrgUnit {
	return &orgunitDatamodel.OrgUnit{
		ID:              o.ID,
		UserID:          o.UserID,
		ParentID:        o.ParentID,
		Name:            o.Name,
		Role:            o.Role,
		SupervisorName:  o.SupervisorName,
		SupervisorEmail: o.SupervisorEmail,
		SupervisorPhone: o.SupervisorPhone,
		EmployeeCount:   o.EmployeeCount,
		Level:           o.Level,
		SortIndex:       o.SortIndex,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func FromDataModel(o *orgunitDatamodel.OrgUnit) *OrgUnit {
	return &OrgUnit{
		ID:              o.ID,
		UserID:          o.UserID,
		ParentID:        o.ParentID,
		Name:            o.Name,
		Role:            o.Role,
		SupervisorName:  o.SupervisorName,
		SupervisorEmail: o.SupervisorEmail,
		SupervisorPhone: o.SupervisorPhone,
		EmployeeCount:   o.EmployeeCount,
		Level:           o.Level,
		SortIndex:       o.SortIndex,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func FromDataModels(rows []*orgunitDatamodel.OrgUnit) []*OrgUnit {
	units := make([]*OrgUnit, 0, len(rows))
	for _, row := range rows {
		units = append(units, FromDataModel(row))
	}
	return units
}
