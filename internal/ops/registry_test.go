/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"testing"

	"github.com/spf13/cobra"
)

func newTestRegistry() *Registry {
	return &Registry{
		commands:   make(map[string]*CommandRegistration),
		groupIndex: make(map[CommandGroup][]*CommandRegistration),
	}
}

// TestRegistry_BasicRegistration tests basic command registration functionality
func TestRegistry_BasicRegistration(t *testing.T) {
	registry := newTestRegistry()

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Test command",
	}

	if err := registry.Register("test", GroupSupport, testCmd, "A test command"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	cmd, exists := registry.GetCommand("test")
	if !exists {
		t.Fatal("Expected command to exist after registration")
	}

	if cmd.Name != "test" {
		t.Errorf("Expected command name 'test', got '%s'", cmd.Name)
	}

	if cmd.Group != GroupSupport {
		t.Errorf("Expected command group 'support', got '%s'", cmd.Group)
	}

	if cmd.Description != "A test command" {
		t.Errorf("Expected description 'A test command', got '%s'", cmd.Description)
	}

	if cmd.Command != testCmd {
		t.Error("Expected command object to match registered command")
	}
}

// TestRegistry_DuplicateRegistration tests handling of duplicate command registration
func TestRegistry_DuplicateRegistration(t *testing.T) {
	registry := newTestRegistry()

	testCmd1 := &cobra.Command{Use: "test", Short: "Test command 1"}
	testCmd2 := &cobra.Command{Use: "test", Short: "Test command 2"}

	if err := registry.Register("test", GroupSupport, testCmd1, "First test command"); err != nil {
		t.Fatalf("Expected first registration to succeed, got error: %v", err)
	}

	err := registry.Register("test", GroupWorkflow, testCmd2, "Second test command")
	if err == nil {
		t.Fatal("Expected duplicate registration to fail")
	}

	expectedError := "command test already registered"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
	}

	// Verify original command is still registered
	cmd, exists := registry.GetCommand("test")
	if !exists {
		t.Fatal("Expected original command to still exist")
	}

	if cmd.Group != GroupSupport {
		t.Errorf("Expected original command group to remain 'support', got '%s'", cmd.Group)
	}
}

// TestRegistry_GetCommandsByGroup tests group-based command retrieval
func TestRegistry_GetCommandsByGroup(t *testing.T) {
	registry := newTestRegistry()

	commands := registry.GetCommandsByGroup(GroupSupport)
	if len(commands) != 0 {
		t.Errorf("Expected empty group to return 0 commands, got %d", len(commands))
	}

	cmd1 := &cobra.Command{Use: "version", Short: "Version command"}
	cmd2 := &cobra.Command{Use: "drift", Short: "Drift command"}
	cmd3 := &cobra.Command{Use: "status", Short: "Status command"}

	if err := registry.Register("version", GroupSupport, cmd1, "Version information"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := registry.Register("drift", GroupWorkflow, cmd2, "Drift detection"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := registry.Register("status", GroupSupport, cmd3, "Asset status"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	supportCommands := registry.GetCommandsByGroup(GroupSupport)
	if len(supportCommands) != 2 {
		t.Errorf("Expected 2 support commands, got %d", len(supportCommands))
	}
	commandNames := make(map[string]bool)
	for _, cmd := range supportCommands {
		commandNames[cmd.Name] = true
	}
	if !commandNames["version"] {
		t.Error("Expected 'version' command in support group")
	}
	if !commandNames["status"] {
		t.Error("Expected 'status' command in support group")
	}

	workflowCommands := registry.GetWorkflowCommands()
	if len(workflowCommands) != 1 {
		t.Errorf("Expected 1 workflow command, got %d", len(workflowCommands))
	}
	if workflowCommands[0].Name != "drift" {
		t.Errorf("Expected workflow command 'drift', got '%s'", workflowCommands[0].Name)
	}
}

// TestRegistry_GetAllCommands tests retrieval of all registered commands
func TestRegistry_GetAllCommands(t *testing.T) {
	registry := newTestRegistry()

	allCommands := registry.GetAllCommands()
	if len(allCommands) != 0 {
		t.Errorf("Expected empty registry to return 0 commands, got %d", len(allCommands))
	}

	cmd1 := &cobra.Command{Use: "version", Short: "Version command"}
	cmd2 := &cobra.Command{Use: "revert", Short: "Revert command"}

	if err := registry.Register("version", GroupSupport, cmd1, "Version information"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := registry.Register("revert", GroupWorkflow, cmd2, "Bulk revert"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	allCommands = registry.GetAllCommands()
	if len(allCommands) != 2 {
		t.Errorf("Expected 2 commands, got %d", len(allCommands))
	}

	versionCmd, exists := allCommands["version"]
	if !exists {
		t.Fatal("Expected 'version' command in all commands")
	}
	if versionCmd.Group != GroupSupport {
		t.Errorf("Expected version command group 'support', got '%s'", versionCmd.Group)
	}
}

// TestRegistry_ListGroups tests group listing functionality
func TestRegistry_ListGroups(t *testing.T) {
	registry := newTestRegistry()

	groups := registry.ListGroups()
	if len(groups) != 0 {
		t.Errorf("Expected empty registry to have 0 groups, got %d", len(groups))
	}

	cmd1 := &cobra.Command{Use: "version", Short: "Version command"}
	cmd2 := &cobra.Command{Use: "init", Short: "Init command"}
	cmd3 := &cobra.Command{Use: "customize", Short: "Customize command"}

	if err := registry.Register("version", GroupSupport, cmd1, "Version information"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := registry.Register("init", GroupWorkflow, cmd2, "Manifest initialization"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := registry.Register("customize", GroupWorkflow, cmd3, "Asset customization"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	groups = registry.ListGroups()
	if len(groups) != 2 {
		t.Errorf("Expected 2 groups, got %d", len(groups))
	}
	if groups[GroupSupport] != 1 {
		t.Errorf("Expected 1 support command, got %d", groups[GroupSupport])
	}
	if groups[GroupWorkflow] != 2 {
		t.Errorf("Expected 2 workflow commands, got %d", groups[GroupWorkflow])
	}
}

// TestGlobalRegistry tests the global registry functionality
func TestGlobalRegistry(t *testing.T) {
	registry := GetRegistry()
	if registry == nil {
		t.Fatal("Expected global registry to be non-nil")
	}

	testCmd := &cobra.Command{Use: "global-test", Short: "Global test command"}
	if err := RegisterCommand("global-test", GroupSupport, testCmd, "Global test command"); err != nil {
		t.Fatalf("Expected global registration to succeed, got error: %v", err)
	}

	cmd, exists := registry.GetCommand("global-test")
	if !exists {
		t.Fatal("Expected globally registered command to exist")
	}
	if cmd.Group != GroupSupport {
		t.Errorf("Expected global command group 'support', got '%s'", cmd.Group)
	}
}

// TestCommandGroups tests the command group constants
func TestCommandGroups(t *testing.T) {
	if GroupSupport != "support" {
		t.Errorf("Expected GroupSupport to be 'support', got '%s'", GroupSupport)
	}
	if GroupWorkflow != "workflow" {
		t.Errorf("Expected GroupWorkflow to be 'workflow', got '%s'", GroupWorkflow)
	}
}
