package dagdef

import (
	"fmt"

	"github.com/shaiso/Drydock/internal/domain"
)

// Node — узел в графе задач.
type Node struct {
	// Task — определение задачи.
	Task *domain.TaskDef

	// ID — идентификатор задачи.
	ID string

	// InDegree — количество входящих рёбер (зависимостей).
	InDegree int

	// DependsOn — узлы, от которых зависит этот узел.
	DependsOn []*Node

	// Dependents — узлы, которые зависят от этого узла.
	Dependents []*Node
}

// Graph — направленный ациклический граф задач DAG'а.
type Graph struct {
	// Nodes — все узлы графа (taskID → Node).
	Nodes map[string]*Node

	// Roots — узлы без зависимостей (точки входа).
	Roots []*Node

	// Order — топологически отсортированный список узлов.
	Order []*Node
}

// BuildGraph строит граф задач из определения DAG'а.
//
// Возвращает ошибку при ссылке на несуществующую задачу
// или при цикле в зависимостях.
func BuildGraph(def *domain.DagDef) (*Graph, error) {
	g := &Graph{
		Nodes: make(map[string]*Node),
		Roots: make([]*Node, 0),
	}

	// Первый проход: создаём все узлы
	for i := range def.Tasks {
		task := &def.Tasks[i]
		g.Nodes[task.TaskID] = &Node{
			Task:       task,
			ID:         task.TaskID,
			DependsOn:  make([]*Node, 0),
			Dependents: make([]*Node, 0),
		}
	}

	// Второй проход: связываем узлы по зависимостям
	for i := range def.Tasks {
		task := &def.Tasks[i]
		node := g.Nodes[task.TaskID]

		for _, depID := range task.DependsOn {
			depNode, exists := g.Nodes[depID]
			if !exists {
				return nil, NewValidationError(def.DagID, task.TaskID, "depends_on",
					fmt.Sprintf("depends on unknown task: %s", depID), ErrMissingDependency)
			}
			g.addEdge(depNode, node)
		}
	}

	g.findRoots()

	order, err := g.topologicalSort()
	if err != nil {
		return nil, NewValidationError(def.DagID, "", "tasks",
			"cyclic dependency detected", err)
	}
	g.Order = order

	return g, nil
}

// addEdge добавляет ребро между узлами.
// Дубликаты игнорируются, чтобы не задваивать InDegree.
func (g *Graph) addEdge(from, to *Node) {
	for _, dep := range to.DependsOn {
		if dep.ID == from.ID {
			return // уже связаны
		}
	}
	from.Dependents = append(from.Dependents, to)
	to.DependsOn = append(to.DependsOn, from)
	to.InDegree++
}

// findRoots находит узлы без входящих рёбер.
func (g *Graph) findRoots() {
	g.Roots = make([]*Node, 0)
	for _, node := range g.Nodes {
		if node.InDegree == 0 {
			g.Roots = append(g.Roots, node)
		}
	}
}

// topologicalSort выполняет топологическую сортировку (алгоритм Кана).
// Возвращает ошибку, если обнаружен цикл.
func (g *Graph) topologicalSort() ([]*Node, error) {
	inDegree := make(map[string]int)
	for id, node := range g.Nodes {
		inDegree[id] = node.InDegree
	}

	queue := make([]*Node, len(g.Roots))
	copy(queue, g.Roots)

	order := make([]*Node, 0, len(g.Nodes))

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, dependent := range node.Dependents {
			inDegree[dependent.ID]--
			if inDegree[dependent.ID] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	// Если не все узлы обработаны — есть цикл
	if len(order) != len(g.Nodes) {
		return nil, ErrCyclicDependency
	}

	return order, nil
}

// GetNode возвращает узел по id.
func (g *Graph) GetNode(id string) *Node {
	return g.Nodes[id]
}

// Size возвращает количество узлов в графе.
func (g *Graph) Size() int {
	return len(g.Nodes)
}
