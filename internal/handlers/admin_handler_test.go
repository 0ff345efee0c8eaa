package handlers

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/pinlon/community_bot/internal/models"
)

func TestSetQuizThreshold(t *testing.T) {
	tests := []struct {
		name          string
		args          string
		wantThreshold int
		wantUsage     bool
	}{
		{name: "Valid", args: "5", wantThreshold: 5},
		{name: "Padded", args: " 7 ", wantThreshold: 7},
		{name: "Empty shows usage", args: "", wantThreshold: 10, wantUsage: true},
		{name: "Non-numeric shows usage", args: "many", wantThreshold: 10, wantUsage: true},
		{name: "Zero rejected", args: "0", wantThreshold: 10},
		{name: "Negative rejected", args: "-3", wantThreshold: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestManager(t)
			bot := newFakeBot()

			h.SetQuizThreshold(100, tt.args, bot)
			if got := h.Repo.Threshold(); got != tt.wantThreshold {
				t.Errorf("Threshold = %d, want %d", got, tt.wantThreshold)
			}
			if tt.wantUsage && !strings.Contains(bot.lastMessage(t).text, "/set") {
				t.Errorf("reply = %q, want usage text", bot.lastMessage(t).text)
			}
		})
	}
}

func TestDeleteRecord(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	h.Repo.AppendVerses([]string{"v1", "v2"})

	h.DeleteRecord(100, "verse 2", bot)
	if got := h.Repo.Stats().Verses; got != 1 {
		t.Errorf("verses after delete = %d, want 1", got)
	}
	if !strings.Contains(bot.lastMessage(t).text, "v2") {
		t.Errorf("reply = %q, want the deleted record named", bot.lastMessage(t).text)
	}

	// Out of range leaves the collection alone
	h.DeleteRecord(100, "verse 9", bot)
	if got := h.Repo.Stats().Verses; got != 1 {
		t.Errorf("verses after failed delete = %d, want 1", got)
	}

	// Malformed arguments get the usage text
	h.DeleteRecord(100, "verse", bot)
	if got := bot.lastMessage(t).text; got != MsgDeleteUsage {
		t.Errorf("reply = %q, want %q", got, MsgDeleteUsage)
	}
}

func TestHandleClearConfirm(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	h.Repo.AppendVerses([]string{"v1"})
	h.Repo.AddScore(7, "alice", 3)

	h.HandleClearConfirm(100, 10, false, bot)
	if got := h.Repo.Stats().Verses; got != 1 {
		t.Errorf("verses after aborted wipe = %d, want 1", got)
	}
	if edit := bot.lastEdit(t); edit.text != MsgClearAborted {
		t.Errorf("edit = %q, want %q", edit.text, MsgClearAborted)
	}

	h.HandleClearConfirm(100, 10, true, bot)
	stats := h.Repo.Stats()
	if stats != (models.Stats{}) {
		t.Errorf("stats after wipe = %+v, want all zero", stats)
	}
	if edit := bot.lastEdit(t); edit.text != MsgClearDone {
		t.Errorf("edit = %q, want %q", edit.text, MsgClearDone)
	}
}

func TestHandleRestoreUpload(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	h.Repo.AppendVerses([]string{"old"})

	data, err := json.Marshal(&models.Snapshot{
		Verses:        []string{"restored one", "restored two"},
		QuizThreshold: 4,
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	h.HandleRestoreUpload(100, "snapshot.json", data, bot)

	if got := h.Repo.Stats().Verses; got != 2 {
		t.Errorf("verses after restore = %d, want 2", got)
	}
	if got := h.Repo.Threshold(); got != 4 {
		t.Errorf("threshold after restore = %d, want 4", got)
	}
	if got := bot.lastMessage(t).text; got != MsgRestoreDone {
		t.Errorf("reply = %q, want %q", got, MsgRestoreDone)
	}
}

func TestHandleRestoreUpload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
	}{
		{name: "Wrong extension", filename: "data.txt", data: "{}"},
		{name: "Broken JSON", filename: "data.json", data: "{broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestManager(t)
			bot := newFakeBot()
			h.Repo.AppendVerses([]string{"kept"})

			h.HandleRestoreUpload(100, tt.filename, []byte(tt.data), bot)
			if got := h.Repo.Stats().Verses; got != 1 {
				t.Errorf("verses after rejected restore = %d, want 1", got)
			}
			if len(bot.messages) == 0 {
				t.Error("no rejection reply sent")
			}
		})
	}
}

func TestBackupSendsDocument(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	h.Repo.AppendVerses([]string{"v1"})

	h.Backup(100, bot)
	if len(bot.documents) != 1 {
		t.Fatalf("documents sent = %d, want 1", len(bot.documents))
	}
	if name := bot.documents[0].text; !strings.HasSuffix(name, ".json") {
		t.Errorf("backup filename = %q, want .json", name)
	}
}

func TestExportScoresSendsWorkbook(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	h.Repo.AddScore(7, "alice", 3)

	h.ExportScores(100, bot)
	if len(bot.documents) != 1 {
		t.Fatalf("documents sent = %d, want 1", len(bot.documents))
	}
	if name := bot.documents[0].text; !strings.HasSuffix(name, ".xlsx") {
		t.Errorf("export filename = %q, want .xlsx", name)
	}
}

func TestHandleReport(t *testing.T) {
	h := newTestManager(t)
	h.Config.AdminIDs = []int64{1, 2}
	bot := newFakeBot()

	h.HandleReport(100, 7, "alice", "the bot is great", bot)

	var adminCopies int
	for _, msg := range bot.messages {
		if msg.chatID == 1 || msg.chatID == 2 {
			adminCopies++
			if !strings.Contains(msg.text, "the bot is great") {
				t.Errorf("admin copy = %q, want the report text", msg.text)
			}
		}
	}
	if adminCopies != 2 {
		t.Errorf("admin copies = %d, want 2", adminCopies)
	}
	if got := bot.lastMessage(t); got.chatID != 100 || got.text != MsgReportSent {
		t.Errorf("confirmation = %+v, want %q to chat 100", got, MsgReportSent)
	}

	// Empty text gets usage, no fan-out
	bot2 := newFakeBot()
	h.HandleReport(100, 7, "alice", "   ", bot2)
	if len(bot2.messages) != 1 || bot2.messages[0].text != MsgReportUsage {
		t.Errorf("empty report replies = %+v, want only usage", bot2.messages)
	}
}
