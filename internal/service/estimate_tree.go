package service

import (
	"github.com/GRAF231/brigada/internal/entity"
)

// EstimateItemNode узел дерева сметы
type EstimateItemNode struct {
	entity.EstimateItem
	Children []*EstimateItemNode `json:"children"`
}

// BuildItemTree собирает дерево из плоского списка позиций за два прохода.
// Позиция с отсутствующим родителем поднимается на верхний уровень,
// порядок исходного списка сохраняется на каждом уровне.
func BuildItemTree(items []entity.EstimateItem) []*EstimateItemNode {
	nodes := make(map[string]*EstimateItemNode, len(items))
	ordered := make([]*EstimateItemNode, 0, len(items))
	for i := range items {
		node := &EstimateItemNode{
			EstimateItem: items[i],
			Children:     []*EstimateItemNode{},
		}
		nodes[node.ID] = node
		ordered = append(ordered, node)
	}

	roots := make([]*EstimateItemNode, 0)
	for _, node := range ordered {
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
