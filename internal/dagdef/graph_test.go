package dagdef

import (
	"errors"
	"testing"

	"github.com/shaiso/Drydock/internal/domain"
)

func TestBuildGraph_SimpleChain(t *testing.T) {
	def := &domain.DagDef{
		DagID: "analytics_chain",
		Tasks: []domain.TaskDef{
			{TaskID: "extract", Type: "shell", Command: "true"},
			{TaskID: "transform", Type: "shell", Command: "true", DependsOn: []string{"extract"}},
			{TaskID: "load", Type: "shell", Command: "true", DependsOn: []string{"transform"}},
		},
	}

	g, err := BuildGraph(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Size() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.Size())
	}
	if len(g.Roots) != 1 {
		t.Errorf("expected 1 root node, got %d", len(g.Roots))
	}
	if g.Roots[0].ID != "extract" {
		t.Errorf("expected root extract, got %s", g.Roots[0].ID)
	}

	load := g.GetNode("load")
	if len(load.DependsOn) != 1 || load.DependsOn[0].ID != "transform" {
		t.Error("load should depend on transform")
	}
}

func TestBuildGraph_Diamond(t *testing.T) {
	// extract → branch_a → join
	// extract → branch_b → join
	def := &domain.DagDef{
		DagID: "analytics_diamond",
		Tasks: []domain.TaskDef{
			{TaskID: "extract", Type: "noop"},
			{TaskID: "branch_a", Type: "noop", DependsOn: []string{"extract"}},
			{TaskID: "branch_b", Type: "noop", DependsOn: []string{"extract"}},
			{TaskID: "join", Type: "noop", DependsOn: []string{"branch_a", "branch_b"}},
		},
	}

	g, err := BuildGraph(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	join := g.GetNode("join")
	if join.InDegree != 2 {
		t.Errorf("join should have inDegree 2, got %d", join.InDegree)
	}
	if g.GetNode("extract").InDegree != 0 {
		t.Error("extract should have inDegree 0")
	}

	// Топологический порядок: extract первым, join последним
	if g.Order[0].ID != "extract" {
		t.Errorf("expected extract first in order, got %s", g.Order[0].ID)
	}
	if g.Order[len(g.Order)-1].ID != "join" {
		t.Errorf("expected join last in order, got %s", g.Order[len(g.Order)-1].ID)
	}
}

func TestBuildGraph_DuplicateEdge(t *testing.T) {
	def := &domain.DagDef{
		DagID: "analytics_dup_edge",
		Tasks: []domain.TaskDef{
			{TaskID: "a", Type: "noop"},
			{TaskID: "b", Type: "noop", DependsOn: []string{"a", "a"}},
		},
	}

	g, err := BuildGraph(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.GetNode("b").InDegree != 1 {
		t.Errorf("duplicate depends_on should count once, inDegree=%d", g.GetNode("b").InDegree)
	}
}

func TestBuildGraph_MissingDependency(t *testing.T) {
	def := &domain.DagDef{
		DagID: "analytics_missing",
		Tasks: []domain.TaskDef{
			{TaskID: "a", Type: "noop", DependsOn: []string{"ghost"}},
		},
	}

	_, err := BuildGraph(def)
	if !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("expected ValidationError")
	}
	if verr.TaskID != "a" || verr.Field != "depends_on" {
		t.Errorf("unexpected error context: %+v", verr)
	}
}

func TestBuildGraph_Cycle(t *testing.T) {
	def := &domain.DagDef{
		DagID: "analytics_cycle",
		Tasks: []domain.TaskDef{
			{TaskID: "a", Type: "noop", DependsOn: []string{"c"}},
			{TaskID: "b", Type: "noop", DependsOn: []string{"a"}},
			{TaskID: "c", Type: "noop", DependsOn: []string{"b"}},
		},
	}

	if _, err := BuildGraph(def); !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}
}
