package conversation

import (
	"encoding/json"
	"testing"

	"github.com/minhyannv/mcp-client-go/pkg/toolhost"
)

func TestNewSeedsDirectiveTurn(t *testing.T) {
	s := New("be polite")
	if s.Len() != 1 {
		t.Fatalf("expected 1 turn, got %d", s.Len())
	}
	first := s.Snapshot()[0]
	if first.Role != RoleAssistant || first.Text != "be polite" {
		t.Fatalf("unexpected directive turn: %+v", first)
	}
}

func TestAppendGrowsInOrder(t *testing.T) {
	s := New("d")
	result := &toolhost.Result{Content: json.RawMessage(`[{"type":"text","text":"sunny"}]`)}
	turns := []Turn{
		UserText("weather?"),
		ToolResult(result),
		AssistantText("It is sunny."),
		AssistantText(""),
	}
	for i, turn := range turns {
		if err := s.Append(turn); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if s.Len() != i+2 {
			t.Fatalf("expected %d turns, got %d", i+2, s.Len())
		}
	}
	got := s.Snapshot()
	if got[1].Text != "weather?" || !got[2].IsToolResult() || got[3].Text != "It is sunny." {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[2].ToolResult != result {
		t.Fatal("tool result should be stored verbatim")
	}
}

func TestAppendRejectsMalformedTurns(t *testing.T) {
	res := &toolhost.Result{Content: json.RawMessage(`[]`)}
	tests := []struct {
		name string
		turn Turn
	}{
		{name: "UnknownRole", turn: Turn{Role: "system", Text: "x"}},
		{name: "EmptyRole", turn: Turn{Text: "x"}},
		{name: "AssistantToolResult", turn: Turn{Role: RoleAssistant, ToolResult: res}},
		{name: "TextAndResult", turn: Turn{Role: RoleUser, Text: "x", ToolResult: res}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("d")
			if err := s.Append(tt.turn); err == nil {
				t.Fatal("expected error")
			}
			if s.Len() != 1 {
				t.Fatalf("rejected turn must not be stored, len=%d", s.Len())
			}
		})
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := New("d")
	_ = s.Append(UserText("hi"))

	first := s.Snapshot()
	second := s.Snapshot()
	if len(first) != len(second) || first[1] != second[1] {
		t.Fatal("snapshots of unchanged state should be equal")
	}

	first[1].Text = "mutated"
	_ = s.Append(AssistantText("hello"))
	if s.Snapshot()[1].Text != "hi" {
		t.Fatal("mutating a snapshot changed the state")
	}
	if len(second) != 2 {
		t.Fatal("later appends changed an earlier snapshot")
	}
}
