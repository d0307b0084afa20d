package orgunit

// TreeNode is one unit in the rendered hierarchy.
type TreeNode struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Role            *string     `json:"role"`
	EmployeeCount   int         `json:"employeeCount"`
	SupervisorName  *string     `json:"supervisorName"`
	SupervisorEmail *string     `json:"supervisorEmail"`
	SupervisorPhone *string     `json:"supervisorPhone"`
	Children        []*TreeNode `json:"children"`
}

// BuildTree turns the flat list into a forest. Children keep the relative order of
// the input. A unit whose parent is not in the list, points at itself, or sits on
// a parent cycle is returned as a root so it never disappears from the view.
func BuildTree(units []*OrgUnit) []*TreeNode {
	nodes := make(map[string]*TreeNode, len(units))
	parentOf := make(map[string]string, len(units))

	for _, u := range units {
		nodes[u.ID] = &TreeNode{
			ID:              u.ID,
			Name:            u.Name,
			Role:            u.Role,
			EmployeeCount:   u.EmployeeCount,
			SupervisorName:  u.SupervisorName,
			SupervisorEmail: u.SupervisorEmail,
			SupervisorPhone: u.SupervisorPhone,
			Children:        []*TreeNode{},
		}
		if u.ParentID != nil && *u.ParentID != u.ID {
			parentOf[u.ID] = *u.ParentID
		}
	}

	for _, u := range units {
		if onCycle(u.ID, parentOf) {
			delete(parentOf, u.ID)
		}
	}

	roots := make([]*TreeNode, 0)
	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true

		node := nodes[u.ID]
		if parentID, ok := parentOf[u.ID]; ok {
			if parent, found := nodes[parentID]; found {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

func onCycle(id string, parentOf map[string]string) bool {
	visited := map[string]bool{id: true}
	current := id
	for {
		next, ok := parentOf[current]
		if !ok {
			return false
		}
		if next == id {
			return true
		}
		if visited[next] {
			return false
		}
		visited[next] = true
		current = next
	}
}
