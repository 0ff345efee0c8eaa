package handlers

import (
	"path/filepath"
	"testing"

	"github.com/pinlon/community_bot/internal/config"
	"github.com/pinlon/community_bot/internal/repositories"
	"github.com/pinlon/community_bot/internal/storage"
)

type sentItem struct {
	chatID    int64
	messageID int
	text      string
	keyboard  interface{}
}

type callbackAnswer struct {
	queryID   string
	text      string
	showAlert bool
}

// fakeBot records every outbound call and can be told to fail delivery to
// specific chats.
type fakeBot struct {
	messages  []sentItem
	edits     []sentItem
	photos    []sentItem
	documents []sentItem
	callbacks []callbackAnswer

	failChats map[int64]bool
	nextMsgID int
}

func newFakeBot() *fakeBot {
	return &fakeBot{failChats: make(map[int64]bool)}
}

func (f *fakeBot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	if f.failChats[chatID] {
		return 0
	}
	f.nextMsgID++
	f.messages = append(f.messages, sentItem{chatID: chatID, messageID: f.nextMsgID, text: text, keyboard: keyboard})
	return f.nextMsgID
}

func (f *fakeBot) EditMessage(chatID int64, messageID int, text string, keyboard interface{}) {
	f.edits = append(f.edits, sentItem{chatID: chatID, messageID: messageID, text: text, keyboard: keyboard})
}

func (f *fakeBot) SendPhoto(chatID int64, photoID string, caption string, keyboard interface{}) int {
	if f.failChats[chatID] {
		return 0
	}
	f.nextMsgID++
	f.photos = append(f.photos, sentItem{chatID: chatID, messageID: f.nextMsgID, text: caption, keyboard: keyboard})
	return f.nextMsgID
}

func (f *fakeBot) SendDocument(chatID int64, filename string, data []byte, caption string) int {
	if f.failChats[chatID] {
		return 0
	}
	f.nextMsgID++
	f.documents = append(f.documents, sentItem{chatID: chatID, messageID: f.nextMsgID, text: filename})
	return f.nextMsgID
}

func (f *fakeBot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	f.callbacks = append(f.callbacks, callbackAnswer{queryID: queryID, text: text, showAlert: showAlert})
}

func (f *fakeBot) lastMessage(t *testing.T) sentItem {
	t.Helper()
	if len(f.messages) == 0 {
		t.Fatal("no messages sent")
	}
	return f.messages[len(f.messages)-1]
}

func (f *fakeBot) lastEdit(t *testing.T) sentItem {
	t.Helper()
	if len(f.edits) == 0 {
		t.Fatal("no edits sent")
	}
	return f.edits[len(f.edits)-1]
}

func newTestManager(t *testing.T) *HandlerManager {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		BotToken:         "test",
		AdminIDs:         []int64{1},
		QuizThreshold:    10,
		BroadcastDelayMs: 0,
		RateLimitPerUser: 100,
	}
	store := storage.NewSnapshotStore(filepath.Join(dir, "bot_data.json"), filepath.Join(dir, "backups"))
	return NewHandlerManager(cfg, repositories.NewContentRepository(), store)
}
