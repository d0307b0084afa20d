package orgunit

import "github.com/stayfix/stayfix/internal/core/common/patch"

type CreateOrgUnitInput struct {
	Name            string  `json:"name"`
	Role            *string `json:"role"`
	SupervisorName  *string `json:"supervisorName"`
	SupervisorEmail *string `json:"supervisorEmail"`
	SupervisorPhone *string `json:"supervisorPhone"`
	ParentID        *string `json:"parentId"`
}

// UpdateOrgUnitInput carries PATCH semantics: only members present in the body change.
type UpdateOrgUnitInput struct {
	ID              string              `json:"id"`
	Name            patch.Field[string] `json:"name"`
	Role            patch.Field[string] `json:"role"`
	SupervisorName  patch.Field[string] `json:"supervisorName"`
	SupervisorEmail patch.Field[string] `json:"supervisorEmail"`
	SupervisorPhone patch.Field[string] `json:"supervisorPhone"`
	ParentID        patch.Field[string] `json:"parentId"`
}

type ReorderInput struct {
	OrderedIDs []string `json:"orderedIds"`
}

type UnitsResponse struct {
	Units []*OrgUnit `json:"units"`
}

type TreeResponse struct {
	Tree []*TreeNode `json:"tree"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
