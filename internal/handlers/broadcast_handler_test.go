package handlers

import (
	"strings"
	"testing"
)

func TestBroadcast_TextToAllGroups(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	for _, id := range []int64{-1, -2, -3} {
		h.Repo.AddGroup(id)
	}

	sent, failed := h.Broadcast(BroadcastPayload{Text: "hello"}, bot)
	if sent != 3 || failed != 0 {
		t.Errorf("Broadcast() = (%d, %d), want (3, 0)", sent, failed)
	}
	if len(bot.messages) != 3 {
		t.Fatalf("deliveries = %d, want 3", len(bot.messages))
	}
	for _, msg := range bot.messages {
		if msg.text != "hello" {
			t.Errorf("delivered %q, want %q", msg.text, "hello")
		}
	}
}

func TestBroadcast_FailedDestinationDoesNotStopTheBatch(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	for _, id := range []int64{-1, -2, -3} {
		h.Repo.AddGroup(id)
	}
	bot.failChats[-2] = true

	sent, failed := h.Broadcast(BroadcastPayload{Text: "hello"}, bot)
	if sent != 2 || failed != 1 {
		t.Errorf("Broadcast() = (%d, %d), want (2, 1)", sent, failed)
	}
	// The group after the failed one was still reached
	last := bot.messages[len(bot.messages)-1]
	if last.chatID != -3 {
		t.Errorf("last delivery chat = %d, want -3", last.chatID)
	}
}

func TestBroadcast_Photo(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	h.Repo.AddGroup(-1)

	sent, failed := h.Broadcast(BroadcastPayload{PhotoID: "file123", Caption: "caption"}, bot)
	if sent != 1 || failed != 0 {
		t.Errorf("Broadcast() = (%d, %d), want (1, 0)", sent, failed)
	}
	if len(bot.photos) != 1 || len(bot.messages) != 0 {
		t.Errorf("photos = %d, messages = %d; want photo delivery only", len(bot.photos), len(bot.messages))
	}
}

func TestHandleBroadcastSubmission_ReportsCounts(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	h.Repo.AddGroup(-1)
	h.Repo.AddGroup(-2)
	bot.failChats[-2] = true

	h.HandleBroadcastSubmission(100, BroadcastPayload{Text: "hi"}, bot)

	report := bot.lastMessage(t)
	if report.chatID != 100 {
		t.Fatalf("report chat = %d, want 100", report.chatID)
	}
	if !strings.Contains(report.text, "Delivered: 1") || !strings.Contains(report.text, "Failed: 1") {
		t.Errorf("report = %q, want delivered 1 failed 1", report.text)
	}
}
