package handlers

import (
	"fmt"
	"time"

	"github.com/pinlon/community_bot/pkg/logger"
)

// BroadcastPayload is one message to fan out: either text, or a photo with
// an optional caption.
type BroadcastPayload struct {
	Text    string
	PhotoID string
	Caption string
}

// Broadcast delivers the payload to every known group. Each delivery is
// isolated: a failed destination is counted and the batch continues. There
// is no retry. Returns the success and failure counts.
func (h *HandlerManager) Broadcast(payload BroadcastPayload, bot BotInterface) (sent, failed int) {
	delay := h.Config.GetBroadcastDelay()

	for i, groupID := range h.Repo.Groups() {
		if i > 0 && delay > 0 {
			// Stay under the transport's rate limits.
			time.Sleep(delay)
		}

		var msgID int
		if payload.PhotoID != "" {
			msgID = bot.SendPhoto(groupID, payload.PhotoID, payload.Caption, nil)
		} else {
			msgID = bot.SendMessage(groupID, payload.Text, nil)
		}

		if msgID == 0 {
			logger.Error("Broadcast delivery failed", "group_id", groupID)
			failed++
			continue
		}
		sent++
	}
	return sent, failed
}

// HandleBroadcastSubmission runs the fan-out for a broadcast dialog's
// payload and reports the final accounting to the operator.
func (h *HandlerManager) HandleBroadcastSubmission(chatID int64, payload BroadcastPayload, bot BotInterface) {
	sent, failed := h.Broadcast(payload, bot)
	bot.SendMessage(chatID, fmt.Sprintf("✅ Broadcast finished.\n\nDelivered: %d\nFailed: %d", sent, failed), nil)
}
