// ABOUTME: Tests for the interactive chat command
// ABOUTME: Drives the REPL through stdin and checks replies, switches, and slash commands

package commands

import (
	"strings"
	"testing"
)

func TestNewChatCmd(t *testing.T) {
	cmd := NewChatCmd()

	if cmd.Use != "chat" {
		t.Errorf("Use = %q, want %q", cmd.Use, "chat")
	}
	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}

func TestChatCmd_Conversation(t *testing.T) {
	stub := setupEnv(t)

	input := strings.Join([]string{
		"where did you work?",
		"/use p1",
		"what is the method?",
		"/history",
		"/quit",
	}, "\n") + "\n"

	stdout, _, err := runCLI(t, input, "--format", "text", "chat")
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	for _, want := range []string{
		"Hello! I'm Ada Lovelace's personal AI assistant.",
		"[Personal Context] > ",
		"Here is the answer.",
		"Switched to Paper: Deep Learning for X",
		"[Paper: Deep Learning for X] > ",
		"[p1] user: what is the method?",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q, got:\n%s", want, stdout)
		}
	}

	calls := stub.calls()
	if len(calls) != 2 {
		t.Fatalf("got %d completion calls, want 2", len(calls))
	}
	if !strings.Contains(systemPrompt(calls[1]), testPaperP1) {
		t.Error("second question should be answered from the selected paper")
	}
}

func TestChatCmd_Disambiguation(t *testing.T) {
	stub := setupEnv(t)

	input := "graph neural networks\n/use g2\n/papers\n/quit\n"
	stdout, _, err := runCLI(t, input, "--format", "text", "chat")
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	for _, want := range []string{
		"2 papers match",
		"/use g1",
		"Switched to Paper: Graph Neural Networks for Traffic",
		"g1  Graph Neural Networks for Molecules",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q, got:\n%s", want, stdout)
		}
	}
	if n := len(stub.calls()); n != 0 {
		t.Errorf("got %d completion calls, want 0", n)
	}
}

func TestChatCmd_SlashCommands(t *testing.T) {
	stub := setupEnv(t)

	input := strings.Join([]string{
		"/help",
		"/bogus",
		"/use",
		"/use nope",
		"/settings 0.3 100",
		"/settings 9",
		"hello",
		"/new",
		"/history",
	}, "\n") + "\n"

	// EOF ends the session like /quit
	stdout, _, err := runCLI(t, input, "--format", "text", "chat")
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	for _, want := range []string{
		"Commands:",
		"unknown command /bogus",
		"usage: /use <paper id>",
		"Error: That context is not available.",
		"temperature 0.30, max tokens 100",
		`Error: invalid temperature "9"`,
		"No messages yet",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q, got:\n%s", want, stdout)
		}
	}

	calls := stub.calls()
	if len(calls) != 1 {
		t.Fatalf("got %d completion calls, want 1", len(calls))
	}
	if calls[0].MaxTokens != 100 {
		t.Errorf("MaxTokens = %d, want 100", calls[0].MaxTokens)
	}
}

func TestChatCmd_CompletionFailure(t *testing.T) {
	stub := setupEnv(t)
	stub.status = 500

	stdout, _, err := runCLI(t, "hello\n/quit\n", "--format", "text", "chat")
	if err != nil {
		t.Fatalf("a failed request should not end the chat: %v", err)
	}
	if !strings.Contains(stdout, "Error: API request failed: Internal Server Error (500)") {
		t.Errorf("failure notice missing, got:\n%s", stdout)
	}
}
