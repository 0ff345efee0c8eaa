package telegram

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pinlon/community_bot/internal/config"
	"github.com/pinlon/community_bot/internal/handlers"
	"github.com/pinlon/community_bot/internal/middleware"
	"github.com/pinlon/community_bot/internal/security"
	"github.com/pinlon/community_bot/pkg/logger"
)

const (
	numWorkers      = 10
	maxUploadBytes  = 5 * 1024 * 1024
	rateLimitWindow = time.Minute
)

type Bot struct {
	api      *tgbotapi.BotAPI
	config   *config.Config
	handlers *handlers.HandlerManager
	limiter  *middleware.RateLimiter

	// Per-chat dialog sessions
	sessions map[int64]*handlers.UserSession
	mu       sync.RWMutex

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
}

// commandSpec binds one slash command to its handler. Admin commands get a
// uniform authorization check before dispatch.
type commandSpec struct {
	admin bool
	run   func(b *Bot, message *tgbotapi.Message)
}

var commands = map[string]commandSpec{
	"start": {run: func(b *Bot, m *tgbotapi.Message) {
		b.clearSession(m.Chat.ID)
		b.sendMessage(m.Chat.ID, MsgWelcome, nil)
	}},
	"help": {run: func(b *Bot, m *tgbotapi.Message) {
		b.sendMessage(m.Chat.ID, MsgHelp, nil)
	}},
	"about": {run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.ShowAbout(m.Chat.ID, b)
	}},
	"contact": {run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.ShowContacts(m.Chat.ID, b)
	}},
	"verse": {run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.ShowVerse(m.Chat.ID, b)
	}},
	"events": {run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.ShowEvents(m.Chat.ID, b)
	}},
	"birthday": {run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.ShowBirthdays(m.Chat.ID, b)
	}},
	"pray": {run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.HandlePrayer(m.Chat.ID, m.From.ID, displayName(m.From), m.CommandArguments(), b)
	}},
	"tops": {run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.ShowTopScores(m.Chat.ID, b)
	}},
	"quiz": {run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.SendQuiz(m.Chat.ID, b)
	}},
	"report": {run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.HandleReport(m.Chat.ID, m.From.ID, displayName(m.From), m.CommandArguments(), b)
	}},
	"cancel": {run: func(b *Bot, m *tgbotapi.Message) {
		b.cancelDialog(m)
	}},

	"edit": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.sendMessage(m.Chat.ID, MsgAdminMenu, nil)
	}},
	"edabout": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.openDialog(m, handlers.StateEditAbout, handlers.MsgPromptAbout)
	}},
	"edcontact": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.openDialog(m, handlers.StateEditContact, handlers.MsgPromptContact)
	}},
	"edverse": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.openDialog(m, handlers.StateEditVerse, handlers.MsgPromptVerse)
	}},
	"edevents": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.openDialog(m, handlers.StateEditEvents, handlers.MsgPromptEvents)
	}},
	"edbirthday": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.openDialog(m, handlers.StateEditBirthday, handlers.MsgPromptBirthday)
	}},
	"edquiz": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.openDialog(m, handlers.StateEditQuiz, handlers.MsgPromptQuiz)
	}},
	"broadcast": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.openDialog(m, handlers.StateBroadcast, handlers.MsgPromptBroadcast)
	}},
	"restore": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.openDialog(m, handlers.StateAwaitingFile, handlers.MsgPromptRestore)
	}},
	"praylist": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.ShowPrayerList(m.Chat.ID, b)
	}},
	"stats": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.ShowStats(m.Chat.ID, b)
	}},
	"set": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.SetQuizThreshold(m.Chat.ID, m.CommandArguments(), b)
	}},
	"delete": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.DeleteRecord(m.Chat.ID, m.CommandArguments(), b)
	}},
	"backup": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.Backup(m.Chat.ID, b)
	}},
	"export": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.ExportScores(m.Chat.ID, b)
	}},
	"allclear": {admin: true, run: func(b *Bot, m *tgbotapi.Message) {
		b.handlers.RequestClearAll(m.Chat.ID, b)
	}},
}

func InitBot(cfg *config.Config, handlerMgr *handlers.HandlerManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	bot := &Bot{
		api:         api,
		config:      cfg,
		handlers:    handlerMgr,
		limiter:     middleware.NewRateLimiter(cfg.RateLimitPerUser, rateLimitWindow),
		sessions:    make(map[int64]*handlers.UserSession),
		workerChans: make([]chan tgbotapi.Update, numWorkers),
	}

	// Start workers
	for i := 0; i < numWorkers; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	// Start update listener
	go bot.startUpdateListener()

	return bot, nil
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			// Find chatID for hashing
			var chatID int64
			if update.Message != nil {
				chatID = update.Message.Chat.ID
			} else if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
				chatID = update.CallbackQuery.Message.Chat.ID
			}

			if chatID != 0 {
				// Hashed dispatch to workers to ensure per-chat ordered processing
				workerIdx := chatID % int64(len(b.workerChans))
				if workerIdx < 0 {
					workerIdx = -workerIdx
				}
				b.workerChans[workerIdx] <- update
			} else {
				go b.handleUpdate(update)
			}
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		time.Sleep(5 * time.Second)
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	if !b.limiter.Allow(userID) {
		logger.Debug("Rate limited", "user_id", userID)
		return
	}

	b.handlers.RegisterChat(chatID, userID, message.Chat.IsPrivate(), b)

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	// The quiz trigger counts every non-command text message, whether or
	// not a dialog consumes it afterwards.
	if message.Text != "" {
		b.handlers.TrackMessage(chatID, b)
	}

	session := b.getSession(chatID)
	if session.State == handlers.StateNone || session.OwnerID != userID {
		return
	}
	b.handleDialogMessage(message, session)
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	spec, ok := commands[message.Command()]
	if !ok {
		// Unknown commands are ignored in groups to avoid noise
		if message.Chat.IsPrivate() {
			b.sendMessage(message.Chat.ID, MsgHelp, nil)
		}
		return
	}

	if spec.admin && !b.config.IsAdmin(message.From.ID) {
		b.sendMessage(message.Chat.ID, handlers.MsgNotAdmin, nil)
		return
	}

	spec.run(b, message)
}

// handleDialogMessage consumes a message as the continuation of the chat's
// open dialog. The caller has already verified the sender owns the dialog.
func (b *Bot) handleDialogMessage(message *tgbotapi.Message, session *handlers.UserSession) {
	chatID := message.Chat.ID

	switch session.State {
	case handlers.StateEditAbout:
		if message.Text == "" {
			return
		}
		b.clearSession(chatID)
		b.handlers.HandleAboutSubmission(chatID, message.Text, b)

	case handlers.StateEditContact, handlers.StateEditVerse, handlers.StateEditEvents:
		if message.Text == "" {
			return
		}
		kind := map[string]string{
			handlers.StateEditContact: "contact",
			handlers.StateEditVerse:   "verse",
			handlers.StateEditEvents:  "event",
		}[session.State]
		b.clearSession(chatID)
		b.handlers.HandleRecordsSubmission(chatID, kind, message.Text, b)

	case handlers.StateEditBirthday:
		if message.Text == "" {
			return
		}
		b.clearSession(chatID)
		b.handlers.HandleBirthdaySubmission(chatID, message.Text, b)

	case handlers.StateEditQuiz:
		if message.Text == "" {
			return
		}
		b.clearSession(chatID)
		b.handlers.HandleQuizSubmission(chatID, message.Text, b)

	case handlers.StateBroadcast:
		payload := broadcastPayload(message)
		if payload == nil {
			return
		}
		b.clearSession(chatID)
		b.handlers.HandleBroadcastSubmission(chatID, *payload, b)

	case handlers.StateAwaitingFile:
		if message.Document == nil {
			return
		}
		b.clearSession(chatID)
		data, err := b.downloadFile(message.Document.FileID, int64(message.Document.FileSize))
		if err != nil {
			logger.Error("Snapshot download failed", "error", err, "chat_id", chatID)
			b.sendMessage(chatID, handlers.MsgRestoreBadFile, nil)
			return
		}
		b.handlers.HandleRestoreUpload(chatID, message.Document.FileName, data, b)
	}
}

// broadcastPayload extracts a deliverable payload from the operator's
// message, or nil when the message carries neither text nor a photo.
func broadcastPayload(message *tgbotapi.Message) *handlers.BroadcastPayload {
	if len(message.Photo) > 0 {
		// Largest rendition is last
		return &handlers.BroadcastPayload{
			PhotoID: message.Photo[len(message.Photo)-1].FileID,
			Caption: message.Caption,
		}
	}
	if message.Text != "" {
		return &handlers.BroadcastPayload{Text: message.Text}
	}
	return nil
}

func (b *Bot) cancelDialog(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	session := b.getSession(chatID)

	if session.State == handlers.StateNone {
		b.sendMessage(chatID, handlers.MsgNoDialog, nil)
		return
	}
	// Only the user who opened the dialog may cancel it
	if session.OwnerID != message.From.ID {
		return
	}

	b.clearSession(chatID)
	b.sendMessage(chatID, handlers.MsgCancelled, nil)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.AnswerCallbackQuery(query.ID, "", false)
		return
	}

	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID
	userID := query.From.ID
	data := query.Data

	if strings.HasPrefix(data, handlers.CallbackQuizPrefix) {
		rest := strings.TrimPrefix(data, handlers.CallbackQuizPrefix)
		parts := strings.SplitN(rest, "_", 2)
		if len(parts) != 2 {
			b.AnswerCallbackQuery(query.ID, "", false)
			return
		}
		quizID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			b.AnswerCallbackQuery(query.ID, "", false)
			return
		}
		b.handlers.HandleQuizAnswer(chatID, messageID, userID, displayName(query.From), query.ID, quizID, parts[1], b)
		return
	}

	switch data {
	case handlers.CallbackClearOK, handlers.CallbackClearCancel:
		b.AnswerCallbackQuery(query.ID, "", false)
		if !b.config.IsAdmin(userID) {
			return
		}
		b.handlers.HandleClearConfirm(chatID, messageID, data == handlers.CallbackClearOK, b)

	default:
		b.AnswerCallbackQuery(query.ID, "", false)
	}
}

func (b *Bot) getSession(chatID int64) *handlers.UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	if session, exists := b.sessions[chatID]; exists {
		return session
	}

	session := &handlers.UserSession{State: handlers.StateNone}
	b.sessions[chatID] = session
	return session
}

func (b *Bot) clearSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sessions[chatID] = &handlers.UserSession{State: handlers.StateNone}
}

func (b *Bot) openDialog(message *tgbotapi.Message, state, prompt string) {
	session := b.getSession(message.Chat.ID)
	// A second edit command replaces whatever dialog was open
	session.State = state
	session.OwnerID = message.From.ID
	b.sendMessage(message.Chat.ID, prompt, nil)
}

func (b *Bot) downloadFile(fileID string, size int64) ([]byte, error) {
	if !security.ValidateFileSize(size, maxUploadBytes) {
		return nil, fmt.Errorf("file size %d out of bounds", size)
	}

	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file url: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxUploadBytes))
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return user.FirstName
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			// If it's a network error, wait and retry
			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

func (b *Bot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	return b.sendMessage(chatID, text, keyboard)
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string, keyboard interface{}) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if keyboard != nil {
		if kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup); ok {
			msg.ReplyMarkup = &kb
		}
	}

	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func (b *Bot) SendPhoto(chatID int64, photoID string, caption string, keyboard interface{}) int {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(photoID))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		photo.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		photo.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(photo)
		if err != nil {
			logger.Error("Failed to send photo", "error", err, "chat_id", chatID, "attempt", i+1)
			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

func (b *Bot) SendDocument(chatID int64, filename string, data []byte, caption string) int {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeHTML

	sentMsg, err := b.api.Send(doc)
	if err != nil {
		logger.Error("Failed to send document", "error", err, "chat_id", chatID, "filename", filename)
		return 0
	}
	return sentMsg.MessageID
}

func (b *Bot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	logger.Info("Bot stopped receiving updates")
}
