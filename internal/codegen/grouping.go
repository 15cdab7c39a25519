package codegen

import (
	"strings"

	"github.com/mark3labs/oapigen/internal/ordered"
)

const defaultGroupName = "default"

// GroupingStrategy places each built operation into a group. It is called
// once per operation, in document order.
type GroupingStrategy interface {
	AddToGroups(op *Operation, groups *ordered.Map[string, *OperationGroup], state *State)
}

// GroupingStrategyFunc adapts a function to GroupingStrategy.
type GroupingStrategyFunc func(op *Operation, groups *ordered.Map[string, *OperationGroup], state *State)

func (f GroupingStrategyFunc) AddToGroups(op *Operation, groups *ordered.Map[string, *OperationGroup], state *State) {
	f(op, groups, state)
}

var (
	// GroupByPath groups operations by the first segment of their path and
	// makes each operation's path relative to it. Operations on the root
	// path go to the "default" group.
	GroupByPath GroupingStrategy = GroupingStrategyFunc(groupByPath)
	// GroupByTag groups operations by their first tag.
	GroupByTag GroupingStrategy = GroupingStrategyFunc(groupByTag)
	// GroupByTagOrPath uses the first tag when there is one and the path
	// otherwise.
	GroupByTagOrPath GroupingStrategy = GroupingStrategyFunc(groupByTagOrPath)
)

func groupByPath(op *Operation, groups *ordered.Map[string, *OperationGroup], _ *State) {
	name, base := defaultGroupName, ""
	if trimmed := strings.TrimPrefix(op.FullPath, "/"); trimmed != "" {
		segment, _, _ := strings.Cut(trimmed, "/")
		name, base = segment, "/"+segment
		op.Path = strings.TrimPrefix(op.FullPath, base)
	}
	addToGroup(groups, name, base, op)
}

func groupByTag(op *Operation, groups *ordered.Map[string, *OperationGroup], _ *State) {
	name := defaultGroupName
	if len(op.Tags) > 0 {
		name = op.Tags[0]
	}
	addToGroup(groups, name, "", op)
}

func groupByTagOrPath(op *Operation, groups *ordered.Map[string, *OperationGroup], state *State) {
	if len(op.Tags) > 0 {
		groupByTag(op, groups, state)
		return
	}
	groupByPath(op, groups, state)
}

func addToGroup(groups *ordered.Map[string, *OperationGroup], name, path string, op *Operation) {
	g, ok := groups.Get(name)
	if !ok {
		g = &OperationGroup{Name: name, Path: path}
		groups.Set(name, g)
	}
	g.Operations = append(g.Operations, op)
}

// StrategyNamed returns the built-in strategy called name: "path", "tag" or
// "tag-or-path".
func StrategyNamed(name string) (GroupingStrategy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "path":
		return GroupByPath, true
	case "tag":
		return GroupByTag, true
	case "tag-or-path":
		return GroupByTagOrPath, true
	}
	return nil, false
}
