package models

import (
	"github.com/mitchellh/mapstructure"
)

func decodeData(data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}

// InterfaceData decodes the interface fields of the node's data bag. Missing or
// malformed fields are left at their zero value.
func (n *Node) InterfaceData() InterfaceNodeData {
	var d InterfaceNodeData
	if n.Data == nil {
		return d
	}

	if err := decodeData(n.Data, &d); err != nil {
		return InterfaceNodeData{}
	}

	return d
}

// InstanceData decodes the subworkflow reference and port mapping of an
// instance node's data bag.
func (n *Node) InstanceData() (InstanceNodeData, bool) {
	var d InstanceNodeData
	if n.Data == nil {
		return d, false
	}

	if err := decodeData(n.Data, &d); err != nil {
		return InstanceNodeData{}, false
	}

	return d, d.SubWorkflowID != ""
}

// ReferencesSubWorkflow reports whether the node is an instance of the definition.
func (n *Node) ReferencesSubWorkflow(definitionID string) bool {
	if !n.IsSubWorkflowInstance() {
		return false
	}

	d, ok := n.InstanceData()

	return ok && d.SubWorkflowID == definitionID
}
