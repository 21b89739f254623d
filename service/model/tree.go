package model

import (
	"fmt"

	"grain-quality-service/service/frame"
)

// TreeNode 扁平化的树节点，Left == -1 表示叶子
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// IsLeaf 是否叶子节点
func (n TreeNode) IsLeaf() bool {
	return n.Left == -1
}

// TreeSpec 森林或提升模型中的单棵树
type TreeSpec struct {
	Nodes []TreeNode `json:"nodes"`
}

// DecisionTree 回归决策树
type DecisionTree struct {
	nodes []TreeNode
}

func buildDecisionTree(spec ModelSpec) (Regressor, error) {
	return newDecisionTree(spec.Nodes)
}

func buildTrees(specs []TreeSpec) ([]*DecisionTree, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("集成模型缺少决策树")
	}
	trees := make([]*DecisionTree, len(specs))
	for i, spec := range specs {
		tree, err := newDecisionTree(spec.Nodes)
		if err != nil {
			return nil, fmt.Errorf("第 %d 棵树无效: %w", i, err)
		}
		trees[i] = tree
	}
	return trees, nil
}

func newDecisionTree(nodes []TreeNode) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("决策树没有节点")
	}
	for i, node := range nodes {
		if node.IsLeaf() {
			if node.Right != -1 {
				return nil, fmt.Errorf("节点 %d: 叶子节点的右子节点必须为 -1", i)
			}
			continue
		}
		if node.Feature < 0 {
			return nil, fmt.Errorf("节点 %d: 特征索引无效 %d", i, node.Feature)
		}
		// 子节点总在父节点之后，保证遍历必然终止
		if node.Left <= i || node.Left >= len(nodes) || node.Right <= i || node.Right >= len(nodes) {
			return nil, fmt.Errorf("节点 %d: 子节点索引无效 (%d, %d)", i, node.Left, node.Right)
		}
	}
	return &DecisionTree{nodes: append([]TreeNode(nil), nodes...)}, nil
}

// Predict 实现 Regressor
func (dt *DecisionTree) Predict(x []float64) (float64, error) {
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf() {
			return node.Value, nil
		}
		if node.Feature >= len(x) {
			return 0, fmt.Errorf("%w: 特征索引 %d 超出输入宽度 %d", frame.ErrShapeMismatch, node.Feature, len(x))
		}
		if x[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}
