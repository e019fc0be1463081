// Package mcpserver exposes the task store as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/metalagman/todo/internal/task"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const (
	timeLayout = "2006-01-02T15:04:05"

	toolAdd      = "add_task"
	toolList     = "list_tasks"
	toolComplete = "complete_task"
	toolDelete   = "delete_task"
)

// Tasks is the subset of the task store the server drives.
type Tasks interface {
	Add(description string, priority task.Priority, tags []string) task.Task
	List(filter string) []task.Task
	MarkCompleted(id int) bool
	Delete(id int) bool
}

// Server serializes MCP tool calls onto a single-writer task store.
type Server struct {
	mu              sync.Mutex
	tasks           Tasks
	defaultPriority task.Priority
	srv             *mcp.Server
}

// New registers the task tools on a fresh MCP server.
func New(tasks Tasks, defaultPriority task.Priority, version string) *Server {
	s := &Server{
		tasks:           tasks,
		defaultPriority: defaultPriority,
		srv:             mcp.NewServer(&mcp.Implementation{Name: "todo", Version: version}, nil),
	}
	mcp.AddTool(s.srv, &mcp.Tool{Name: toolAdd, Description: "Add a task to the to-do list."}, s.addTask)
	mcp.AddTool(s.srv, &mcp.Tool{Name: toolList, Description: "List tasks, optionally filtered by completed or pending."}, s.listTasks)
	mcp.AddTool(s.srv, &mcp.Tool{Name: toolComplete, Description: "Mark a task as completed. changed is false when the task is missing or already completed."}, s.completeTask)
	mcp.AddTool(s.srv, &mcp.Tool{Name: toolDelete, Description: "Delete a task. changed is false when the task is missing."}, s.deleteTask)
	return s
}

// Run serves until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.srv.Run(ctx, t)
}

// TaskView is the wire form of a task.
type TaskView struct {
	ID          int      `json:"id"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Completed   bool     `json:"completed"`
	CreatedAt   string   `json:"created_at"`
	CompletedAt string   `json:"completed_at,omitempty"`
	Tags        []string `json:"tags"`
}

// AddInput are the add_task arguments.
type AddInput struct {
	Description string   `json:"description" jsonschema:"text of the task"`
	Priority    string   `json:"priority,omitempty" jsonschema:"HIGH or MEDIUM or LOW; case-insensitive"`
	Tags        []string `json:"tags,omitempty" jsonschema:"optional tags"`
}

// AddOutput is the add_task result.
type AddOutput struct {
	Task TaskView `json:"task"`
}

// ListInput are the list_tasks arguments.
type ListInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"completed or pending; anything else lists every task"`
}

// ListOutput is the list_tasks result.
type ListOutput struct {
	Tasks []TaskView `json:"tasks"`
}

// IDInput identifies a task.
type IDInput struct {
	ID int `json:"id" jsonschema:"task id"`
}

// ChangeOutput reports whether a mutation happened.
type ChangeOutput struct {
	Changed bool `json:"changed"`
}

func (s *Server) addTask(_ context.Context, _ *mcp.CallToolRequest, in AddInput) (*mcp.CallToolResult, AddOutput, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, AddOutput{}, fmt.Errorf("description is required")
	}
	priority := s.defaultPriority
	if in.Priority != "" {
		p, err := task.ParsePriorityFold(in.Priority)
		if err != nil {
			return nil, AddOutput{}, err
		}
		priority = p
	}
	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	s.mu.Lock()
	t := s.tasks.Add(description, priority, tags)
	s.mu.Unlock()

	log.Debug().Int("task_id", t.ID).Msg("mcp: task added")
	return nil, AddOutput{Task: view(t)}, nil
}

func (s *Server) listTasks(_ context.Context, _ *mcp.CallToolRequest, in ListInput) (*mcp.CallToolResult, ListOutput, error) {
	s.mu.Lock()
	tasks := s.tasks.List(in.Filter)
	s.mu.Unlock()

	out := ListOutput{Tasks: make([]TaskView, 0, len(tasks))}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, view(t))
	}
	return nil, out, nil
}

func (s *Server) completeTask(_ context.Context, _ *mcp.CallToolRequest, in IDInput) (*mcp.CallToolResult, ChangeOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nil, ChangeOutput{Changed: s.tasks.MarkCompleted(in.ID)}, nil
}

func (s *Server) deleteTask(_ context.Context, _ *mcp.CallToolRequest, in IDInput) (*mcp.CallToolResult, ChangeOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nil, ChangeOutput{Changed: s.tasks.Delete(in.ID)}, nil
}

func view(t task.Task) TaskView {
	v := TaskView{
		ID:          t.ID,
		Description: t.Description,
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.Format(timeLayout),
		Tags:        t.Tags,
	}
	if t.CompletedAt != nil {
		v.CompletedAt = t.CompletedAt.Format(timeLayout)
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return v
}
