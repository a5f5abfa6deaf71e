package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/project"
	"github.com/dukex/graphdesk/pkg/subworkflow"
)

type summary struct {
	Name         string               `json:"name"                        yaml:"name"`
	Version      string               `json:"version"                     yaml:"version"`
	ExportedAt   time.Time            `json:"exportedAt"                  yaml:"exportedAt"`
	ActiveTab    string               `json:"activeTab"                   yaml:"activeTab"`
	Tabs         []tabSummary         `json:"tabs"                        yaml:"tabs"`
	Detached     []string             `json:"detachedDocuments,omitempty" yaml:"detachedDocuments,omitempty"`
	SubWorkflows []subWorkflowSummary `json:"subWorkflows,omitempty"      yaml:"subWorkflows,omitempty"`
	NodeGroups   []string             `json:"nodeGroups,omitempty"        yaml:"nodeGroups,omitempty"`
	CustomNodes  []string             `json:"customNodes,omitempty"       yaml:"customNodes,omitempty"`
	Problems     []string             `json:"problems,omitempty"          yaml:"problems,omitempty"`
}

type tabSummary struct {
	ID          string `json:"id"          yaml:"id"`
	Title       string `json:"title"       yaml:"title"`
	Kind        string `json:"kind"        yaml:"kind"`
	Nodes       int    `json:"nodes"       yaml:"nodes"`
	Connections int    `json:"connections" yaml:"connections"`
}

type subWorkflowSummary struct {
	ID        string   `json:"id"        yaml:"id"`
	Name      string   `json:"name"      yaml:"name"`
	Inputs    []string `json:"inputs"    yaml:"inputs"`
	Outputs   []string `json:"outputs"   yaml:"outputs"`
	Instances int      `json:"instances" yaml:"instances"`
}

// summarize describes a project without loading it into an editor. Problems
// lists instances whose ports no longer match their definition.
func summarize(f *project.File) summary {
	s := summary{
		Name:       f.Name(),
		Version:    f.Version,
		ExportedAt: f.ExportedAt,
		ActiveTab:  f.ActiveTabID,
		Tabs:       make([]tabSummary, 0, len(f.Tabs)),
	}

	open := map[string]bool{}

	for _, t := range f.Tabs {
		open[t.ID] = true
		ts := tabSummary{ID: t.ID, Title: t.Title, Kind: string(t.Kind)}

		if snap, ok := f.TabWorkflowStates[t.ID]; ok {
			ts.Nodes = len(snap.Nodes)
			ts.Connections = len(snap.Connections)
		}

		s.Tabs = append(s.Tabs, ts)
	}

	for id := range f.TabWorkflowStates {
		if !open[id] {
			s.Detached = append(s.Detached, id)
		}
	}

	slices.Sort(s.Detached)

	for _, def := range f.SubWorkflowDefinitions {
		sw := subWorkflowSummary{
			ID:      def.ID,
			Name:    def.Name,
			Inputs:  describeInterface(def.Inputs),
			Outputs: describeInterface(def.Outputs),
		}

		inputs, outputs, _ := subworkflow.GenerateInstancePorts(def)

		for _, docID := range sortedKeys(f.TabWorkflowStates) {
			for _, n := range f.TabWorkflowStates[docID].Nodes {
				if !n.ReferencesSubWorkflow(def.ID) {
					continue
				}

				sw.Instances++

				if !samePortIDs(n.Inputs, inputs) || !samePortIDs(n.Outputs, outputs) {
					s.Problems = append(s.Problems,
						fmt.Sprintf("instance %s of %q in %s has stale ports", n.ID, def.Name, docID))
				}
			}
		}

		s.SubWorkflows = append(s.SubWorkflows, sw)
	}

	for _, g := range f.NodeGroupDefinitions {
		s.NodeGroups = append(s.NodeGroups, g.Name)
	}

	for _, d := range f.CustomNodeDefinitions {
		s.CustomNodes = append(s.CustomNodes, d.Type)
	}

	return s
}

func samePortIDs(a, b []*models.Port) bool {
	return slices.EqualFunc(a, b, func(x, y *models.Port) bool { return x.ID == y.ID })
}

func describeInterface(items []models.InterfaceDefinition) []string {
	out := make([]string, 0, len(items))

	for _, it := range items {
		label := it.Name + ": " + string(it.DataType)
		if it.Required {
			label += " (required)"
		}

		out = append(out, label)
	}

	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
