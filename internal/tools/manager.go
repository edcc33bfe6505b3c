// In file: internal/tools/manager.go
package tools

// ToolManager holds the registry of all available tools. It is populated
// once at startup and is read-only afterwards, so no locking is needed
// during conversation runs.
type ToolManager struct {
	tools map[string]ToolExecutor
	names []string
}

func NewToolManager() *ToolManager {
	return &ToolManager{
		tools: make(map[string]ToolExecutor),
	}
}

// Register adds a new tool to the manager's registry. Registering the same
// name twice replaces the earlier executor.
func (tm *ToolManager) Register(tool ToolExecutor) {
	name := tool.Definition().Function.Name
	if _, exists := tm.tools[name]; !exists {
		tm.names = append(tm.names, name)
	}
	tm.tools[name] = tool
}

// GetDefinitions returns the registered tool definitions in registration
// order, ready to be advertised to the model.
func (tm *ToolManager) GetDefinitions() []Tool {
	defs := make([]Tool, 0, len(tm.names))
	for _, name := range tm.names {
		defs = append(defs, tm.tools[name].Definition())
	}
	return defs
}

// Resolve looks up a tool by name. The second return value is false when the
// model requested a name that was never registered.
func (tm *ToolManager) Resolve(name string) (ToolExecutor, bool) {
	tool, ok := tm.tools[name]
	return tool, ok
}

// ToolCount returns the number of registered tools.
func (tm *ToolManager) ToolCount() int {
	return len(tm.tools)
}
