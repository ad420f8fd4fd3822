package reminders_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/reminders-mcp/internal/logging"
	"github.com/teemow/reminders-mcp/internal/reminders"
	"github.com/teemow/reminders-mcp/internal/server"
	"github.com/teemow/reminders-mcp/internal/tools/common"
)

// Tool names
const (
	ToolListReminderLists = "list_reminder_lists"
	ToolListReminders     = "list_reminders"
	ToolCreateReminder    = "create_reminder"
	ToolUpdateReminder    = "update_reminder"
	ToolCompleteReminder  = "complete_reminder"
	ToolDeleteReminder    = "delete_reminder"
)

type toolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

type toolRegistration struct {
	tool      mcp.Tool
	operation string
	mutating  bool
	handler   toolHandler
}

// Tools returns the six Reminders tool definitions in registration order.
func Tools() []mcp.Tool {
	regs := registrations()
	tools := make([]mcp.Tool, 0, len(regs))
	for _, r := range regs {
		tools = append(tools, r.tool)
	}
	return tools
}

// RegisterRemindersTools registers all Reminders tools with the MCP server.
// In read-only mode the mutating tools stay registered but refuse to run.
func RegisterRemindersTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil {
		return fmt.Errorf("mcp server is required")
	}
	if sc == nil {
		return fmt.Errorf("server context is required")
	}

	for _, r := range registrations() {
		handler := r.handler
		if r.mutating && sc.ReadOnly() {
			handler = readOnlyHandler(r.tool.Name)
		}
		s.AddTool(r.tool, common.InstrumentedToolHandler(r.tool.Name, r.operation, sc, bind(handler, sc)))
	}

	return nil
}

func bind(h toolHandler, sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h(ctx, request, sc)
	}
}

func readOnlyHandler(toolName string) toolHandler {
	return func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error) {
		slog.Warn("refusing mutating tool in read-only mode", logging.Tool(toolName))
		return mcp.NewToolResultError(fmt.Sprintf("%s is disabled: the server is running in read-only mode", toolName)), nil
	}
}

func registrations() []toolRegistration {
	listNameOpt := func(desc string) mcp.ToolOption {
		return mcp.WithString("list_name", mcp.Description(desc))
	}

	return []toolRegistration{
		{
			tool: mcp.NewTool(ToolListReminderLists,
				mcp.WithDescription("List the names of all Reminders lists"),
				mcp.WithTitleAnnotation("List reminder lists"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
			),
			operation: reminders.OpListLists,
			handler:   handleListReminderLists,
		},
		{
			tool: mcp.NewTool(ToolListReminders,
				mcp.WithDescription("List reminders from one list or from all lists. Completed reminders are skipped unless include_completed is true."),
				listNameOpt("Only return reminders from this list (default: all lists)"),
				mcp.WithBoolean("include_completed",
					mcp.Description("Also return completed reminders (default: false)"),
				),
				mcp.WithTitleAnnotation("List reminders"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
			),
			operation: reminders.OpListReminders,
			handler:   handleListReminders,
		},
		{
			tool: mcp.NewTool(ToolCreateReminder,
				mcp.WithDescription("Create a new reminder and return its name"),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Title of the reminder"),
				),
				listNameOpt("List to add the reminder to (default: the default Reminders list)"),
				mcp.WithString("due_date",
					mcp.Description("Due date as text the Reminders app understands, e.g. 'March 1, 2026 at 9:00 AM'"),
				),
				mcp.WithString("notes",
					mcp.Description("Notes stored in the reminder body"),
				),
				mcp.WithTitleAnnotation("Create reminder"),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithOpenWorldHintAnnotation(false),
			),
			operation: reminders.OpCreateReminder,
			mutating:  true,
			handler:   handleCreateReminder,
		},
		{
			tool: mcp.NewTool(ToolUpdateReminder,
				mcp.WithDescription("Update the first reminder with the given name. Only supplied fields are changed. Returns true if a reminder was found."),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Current title of the reminder"),
				),
				listNameOpt("Only search this list (default: all lists)"),
				mcp.WithString("new_name",
					mcp.Description("New title"),
				),
				mcp.WithString("notes",
					mcp.Description("New notes"),
				),
				mcp.WithString("due_date",
					mcp.Description("New due date as text the Reminders app understands"),
				),
				mcp.WithTitleAnnotation("Update reminder"),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
			),
			operation: reminders.OpUpdate,
			mutating:  true,
			handler:   handleUpdateReminder,
		},
		{
			tool: mcp.NewTool(ToolCompleteReminder,
				mcp.WithDescription("Mark the first reminder with the given name as completed. Returns true if a reminder was found."),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Title of the reminder"),
				),
				listNameOpt("Only search this list (default: all lists)"),
				mcp.WithTitleAnnotation("Complete reminder"),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
			),
			operation: reminders.OpComplete,
			mutating:  true,
			handler:   handleCompleteReminder,
		},
		{
			tool: mcp.NewTool(ToolDeleteReminder,
				mcp.WithDescription("Delete the first reminder with the given name. Returns true if a reminder was found."),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Title of the reminder"),
				),
				listNameOpt("Only search this list (default: all lists)"),
				mcp.WithTitleAnnotation("Delete reminder"),
				mcp.WithDestructiveHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
			),
			operation: reminders.OpDelete,
			mutating:  true,
			handler:   handleDeleteReminder,
		},
	}
}

func handleListReminderLists(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	lists, err := sc.RemindersClient().ListLists(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list reminder lists: %v", err)), nil
	}
	return jsonResult(lists)
}

func handleListReminders(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	opts := reminders.ListOptions{
		ListName:         common.OptionalStringArg(args, "list_name"),
		IncludeCompleted: common.BoolArg(args, "include_completed"),
	}

	items, err := sc.RemindersClient().ListReminders(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list reminders: %v", err)), nil
	}
	if items == nil {
		items = []reminders.Reminder{}
	}
	return jsonResult(items)
}

func handleCreateReminder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := common.RequiredStringArg(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := sc.RemindersClient().CreateReminder(ctx, name, reminders.CreateInput{
		ListName: common.OptionalStringArg(args, "list_name"),
		DueDate:  common.OptionalStringArg(args, "due_date"),
		Notes:    common.OptionalStringArg(args, "notes"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create reminder: %v", err)), nil
	}
	return mcp.NewToolResultText(created), nil
}

func handleUpdateReminder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := common.RequiredStringArg(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := sc.RemindersClient().UpdateReminder(ctx, name, reminders.UpdateInput{
		ListName: common.OptionalStringArg(args, "list_name"),
		NewName:  common.OptionalStringArg(args, "new_name"),
		Notes:    common.OptionalStringArg(args, "notes"),
		DueDate:  common.OptionalStringArg(args, "due_date"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update reminder: %v", err)), nil
	}
	return jsonResult(result.Found())
}

func handleCompleteReminder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := common.RequiredStringArg(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := sc.RemindersClient().CompleteReminder(ctx, name, common.OptionalStringArg(args, "list_name"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to complete reminder: %v", err)), nil
	}
	return jsonResult(result.Found())
}

func handleDeleteReminder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := common.RequiredStringArg(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := sc.RemindersClient().DeleteReminder(ctx, name, common.OptionalStringArg(args, "list_name"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete reminder: %v", err)), nil
	}
	return jsonResult(result.Found())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
