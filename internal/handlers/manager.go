package handlers

import (
	"sync"

	"github.com/pinlon/community_bot/internal/config"
	"github.com/pinlon/community_bot/internal/repositories"
	"github.com/pinlon/community_bot/internal/storage"
	"github.com/pinlon/community_bot/pkg/logger"
)

// BotInterface is what handlers need from the transport. The bot implements
// it; tests substitute fakes.
type BotInterface interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
	EditMessage(chatID int64, messageID int, text string, keyboard interface{})
	SendPhoto(chatID int64, photoID string, caption string, keyboard interface{}) int
	SendDocument(chatID int64, filename string, data []byte, caption string) int
	AnswerCallbackQuery(queryID string, text string, showAlert bool)
}

// UserSession tracks an open multi-turn dialog for one chat. It lives only
// in process memory; a restart silently drops in-progress dialogs.
type UserSession struct {
	State   string
	OwnerID int64
}

// Dialog states
const (
	StateNone         = ""
	StateEditAbout    = "edit_about"
	StateEditContact  = "edit_contact"
	StateEditVerse    = "edit_verse"
	StateEditEvents   = "edit_events"
	StateEditBirthday = "edit_birthday"
	StateEditQuiz     = "edit_quiz"
	StateBroadcast    = "broadcast"
	StateAwaitingFile = "restore_file"
)

// answeredCapacity bounds the answer-dedup state: once this many dispatched
// quiz messages are tracked, the oldest dispatch is forgotten.
const answeredCapacity = 1024

type HandlerManager struct {
	Config *config.Config
	Repo   *repositories.ContentRepository
	Store  *storage.SnapshotStore

	// chatID_messageID -> set of users who already answered that dispatch.
	// answeredOrder keeps the keys oldest-first for eviction.
	answered      map[string]map[int64]bool
	answeredOrder []string
	answeredMu    sync.Mutex
}

func NewHandlerManager(cfg *config.Config, repo *repositories.ContentRepository, store *storage.SnapshotStore) *HandlerManager {
	return &HandlerManager{
		Config:   cfg,
		Repo:     repo,
		Store:    store,
		answered: make(map[string]map[int64]bool),
	}
}

// RegisterChat records the message source as a known destination. Private
// chats register the sender, groups register the chat itself. The store is
// saved only when membership actually grew.
func (h *HandlerManager) RegisterChat(chatID, userID int64, private bool, bot BotInterface) {
	var added bool
	if private {
		added = h.Repo.AddUser(userID)
	} else {
		added = h.Repo.AddGroup(chatID)
	}
	if added {
		h.persist(chatID, bot)
	}
}

// persist checkpoints the store after a mutation. A failed save is reported
// but the in-memory mutation stands; memory and disk stay divergent until
// the next successful save.
func (h *HandlerManager) persist(chatID int64, bot BotInterface) {
	if err := h.Store.Save(h.Repo.Snapshot()); err != nil {
		logger.Error("Failed to save snapshot", "error", err, "chat_id", chatID)
		bot.SendMessage(chatID, MsgSaveFailed, nil)
	}
}
