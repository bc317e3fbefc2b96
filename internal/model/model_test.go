// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewMessage_Timestamp(t *testing.T) {
	now := time.Date(2025, 7, 10, 14, 5, 0, 0, time.Local)

	msg := NewUserMessage("hi", now, "")
	if msg.Timestamp() != "14:05" {
		t.Errorf("expected 14:05, got %q", msg.Timestamp())
	}
	if !msg.IsUser() || msg.IsBot() {
		t.Error("expected a user message")
	}

	bot := NewBotMessage("hello", now, "15:04:05")
	if bot.Timestamp() != "14:05:00" {
		t.Errorf("expected custom layout, got %q", bot.Timestamp())
	}
	if bot.Sender() != SenderBot {
		t.Errorf("expected bot sender, got %s", bot.Sender())
	}
}

func TestSender_DisplayName(t *testing.T) {
	if SenderUser.DisplayName() != "You" {
		t.Errorf("unexpected user name %q", SenderUser.DisplayName())
	}
	if SenderBot.DisplayName() != "Ndu" {
		t.Errorf("unexpected bot name %q", SenderBot.DisplayName())
	}
	if Sender("other").IsValid() {
		t.Error("unknown sender should be invalid")
	}
}

func TestMessage_MarshalJSON(t *testing.T) {
	now := time.Date(2025, 7, 10, 9, 30, 0, 0, time.Local)
	data, err := json.Marshal(NewBotMessage("**bold**", now, ""))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"text":"**bold**","sender":"bot","timestamp":"09:30"}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestConversation_AppendOrder(t *testing.T) {
	conv := NewConversation()
	now := time.Now()

	conv.Append(NewUserMessage("one", now, ""))
	conv.Append(NewBotMessage("two", now, ""))
	conv.Append(NewUserMessage("three", now, ""))

	msgs := conv.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, want := range []string{"one", "two", "three"} {
		if msgs[i].Text() != want {
			t.Errorf("message %d: expected %q, got %q", i, want, msgs[i].Text())
		}
	}

	last, ok := conv.Last()
	if !ok || last.Text() != "three" {
		t.Errorf("unexpected last message %q", last.Text())
	}
}

func TestConversation_MessagesIsCopy(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewUserMessage("original", time.Now(), ""))

	msgs := conv.Messages()
	msgs[0] = NewBotMessage("tampered", time.Now(), "")

	if got := conv.Messages()[0].Text(); got != "original" {
		t.Errorf("stored history changed through copy: %q", got)
	}
}

func TestConversation_HasUserMessageAndReset(t *testing.T) {
	conv := NewConversation()
	if conv.HasUserMessage() {
		t.Error("empty conversation has no user message")
	}

	conv.Append(NewBotMessage("welcome", time.Now(), ""))
	if conv.HasUserMessage() {
		t.Error("bot-only conversation has no user message")
	}

	conv.Append(NewUserMessage("hi", time.Now(), ""))
	if !conv.HasUserMessage() {
		t.Error("expected user message")
	}

	conv.Reset()
	if !conv.IsEmpty() || conv.Len() != 0 {
		t.Error("expected empty conversation after reset")
	}
	if _, ok := conv.Last(); ok {
		t.Error("Last should report false on empty conversation")
	}
}

func TestProcessedSet_ExactMatch(t *testing.T) {
	set := NewProcessedSet()
	set.Add("Hello")

	if !set.Contains("Hello") {
		t.Error("expected exact match")
	}
	if set.Contains("hello") || set.Contains("Hello ") {
		t.Error("match must be exact")
	}

	set.Reset()
	if set.Len() != 0 || set.Contains("Hello") {
		t.Error("expected empty set after reset")
	}
}
