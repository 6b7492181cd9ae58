package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aixgo-dev/dayplan/internal/memory"
)

const memoryUnavailable = "💭 Memory storage not available. Please continue without saved memories."

type saveMemoryArgs struct {
	Content    string   `json:"content" description:"The fact or preference to remember" validate:"required"`
	ThreadID   string   `json:"thread_id" description:"Conversation thread the memory belongs to"`
	Tags       []string `json:"tags" description:"Optional tags for categorizing the memory"`
	Importance int      `json:"importance" description:"Importance from 1 (low) to 5 (high)"`
}

type listMemoriesArgs struct {
	ThreadID string `json:"thread_id" description:"Conversation thread to list memories for"`
	Limit    int    `json:"limit" description:"Maximum number of memories to return"`
}

type searchMemoryArgs struct {
	Query    string `json:"query" description:"Text to match against memory content and tags" validate:"required"`
	ThreadID string `json:"thread_id" description:"Conversation thread to search within"`
	Limit    int    `json:"limit" description:"Maximum number of memories to return"`
}

type deleteMemoryArgs struct {
	MemoryID string `json:"memory_id" description:"Id of the memory to delete" validate:"required"`
	ThreadID string `json:"thread_id" description:"Conversation thread the memory belongs to"`
}

func registerMemoryTools(r *Registry, d Deps) {
	r.register(Tool{
		Name:        "save_memory",
		Description: "Remember a fact or preference about the user for future conversations",
		Schema:      schemaFor(saveMemoryArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) string {
			if d.Memories == nil {
				return memoryUnavailable
			}
			var in saveMemoryArgs
			if err := decodeArgs(args, &in); err != nil {
				return Failf("Error saving memory: %v", err)
			}
			if strings.TrimSpace(in.Content) == "" {
				return Failf("Error saving memory: content is empty")
			}
			m, err := d.Memories.Save(ctx, in.ThreadID, in.Content, in.Tags, in.Importance)
			if err != nil {
				return Failf("Error saving memory: %v", err)
			}
			return fmt.Sprintf("✅ Memory saved (id: %s)", m.ID)
		},
	})

	r.register(Tool{
		Name:        "list_memories",
		Description: "List everything remembered about the user in this conversation thread",
		Schema:      schemaFor(listMemoriesArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) string {
			if d.Memories == nil {
				return memoryUnavailable
			}
			var in listMemoriesArgs
			if err := decodeArgs(args, &in); err != nil {
				return Failf("Error listing memories: %v", err)
			}
			items, err := d.Memories.List(ctx, in.ThreadID, in.Limit)
			if err != nil {
				return Failf("Error listing memories: %v", err)
			}
			if len(items) == 0 {
				return "💭 No memories saved yet."
			}
			return renderMemories("💭 Memories:", items)
		},
	})

	r.register(Tool{
		Name:        "search_memory",
		Description: "Search saved memories for relevant facts about the user",
		Schema:      schemaFor(searchMemoryArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) string {
			if d.Memories == nil {
				return memoryUnavailable
			}
			var in searchMemoryArgs
			if err := decodeArgs(args, &in); err != nil {
				return Failf("Error searching memories: %v", err)
			}
			items, err := d.Memories.Search(ctx, in.ThreadID, in.Query, in.Limit)
			if err != nil {
				return Failf("Error searching memories: %v", err)
			}
			if len(items) == 0 {
				return fmt.Sprintf("💭 No memories matched '%s'.", in.Query)
			}
			return renderMemories(fmt.Sprintf("💭 Memories matching '%s':", in.Query), items)
		},
	})

	r.register(Tool{
		Name:        "delete_memory",
		Description: "Delete a saved memory by its id",
		Schema:      schemaFor(deleteMemoryArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) string {
			if d.Memories == nil {
				return memoryUnavailable
			}
			var in deleteMemoryArgs
			if err := decodeArgs(args, &in); err != nil {
				return Failf("Error deleting memory: %v", err)
			}
			if err := d.Memories.Delete(ctx, in.ThreadID, in.MemoryID); err != nil {
				if errors.Is(err, memory.ErrMemoryNotFound) {
					return Failf("Memory with ID '%s' not found", in.MemoryID)
				}
				return Failf("Error deleting memory: %v", err)
			}
			return fmt.Sprintf("✅ Memory '%s' deleted", in.MemoryID)
		},
	})
}

func renderMemories(header string, items []memory.Memory) string {
	var sb strings.Builder
	sb.WriteString(header)
	for _, m := range items {
		fmt.Fprintf(&sb, "\n- [%s] %s", m.ID, m.Content)
		if len(m.Tags) > 0 {
			fmt.Fprintf(&sb, " (tags: %s)", strings.Join(m.Tags, ", "))
		}
	}
	return sb.String()
}
