package telegram

import (
	"fmt"
	"sync"
	"time"

	"github.com/gotd/td/tg"

	"github.com/jeevesbot/jeeves/internal/source"
)

// Handler processes incoming Telegram updates. Only direct messages from
// users are forwarded; groups and channels are ignored. Cached user entities
// carry the access hashes needed to address replies.
type Handler struct {
	messageChan chan source.Message

	mu    sync.RWMutex
	users map[int64]*tg.User
}

// NewHandler creates a new Telegram update handler
func NewHandler() *Handler {
	return &Handler{
		messageChan: make(chan source.Message, 100),
		users:       make(map[int64]*tg.User),
	}
}

// MessageChan returns the channel for receiving filtered messages
func (h *Handler) MessageChan() <-chan source.Message {
	return h.messageChan
}

// HandleUpdate processes a Telegram update
func (h *Handler) HandleUpdate(update tg.UpdatesClass) {
	switch u := update.(type) {
	case *tg.Updates:
		h.cacheUsers(u.Users)
		for _, upd := range u.Updates {
			h.handleSingleUpdate(upd)
		}
	case *tg.UpdatesCombined:
		h.cacheUsers(u.Users)
		for _, upd := range u.Updates {
			h.handleSingleUpdate(upd)
		}
	case *tg.UpdateShort:
		h.handleSingleUpdate(u.Update)
	case *tg.UpdateShortMessage:
		h.handleShortMessage(u)
	case *tg.UpdateShortChatMessage:
		// Group messages not supported
		return
	}
}

// cacheUsers caches user entities, including access hashes
func (h *Handler) cacheUsers(users []tg.UserClass) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			h.users[user.ID] = user
		}
	}
}

// InputPeer resolves a chat ID to an addressable peer from the entity cache.
// A chat becomes addressable once the user has messaged the bot.
func (h *Handler) InputPeer(chatID int64) (tg.InputPeerClass, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	user, ok := h.users[chatID]
	if !ok {
		return nil, fmt.Errorf("no cached peer for chat %d", chatID)
	}
	return &tg.InputPeerUser{UserID: user.ID, AccessHash: user.AccessHash}, nil
}

// handleSingleUpdate processes a single update
func (h *Handler) handleSingleUpdate(update tg.UpdateClass) {
	switch msg := update.(type) {
	case *tg.UpdateNewMessage:
		h.handleNewMessage(msg.Message)
	}
}

// handleNewMessage processes a new direct message
func (h *Handler) handleNewMessage(msg tg.MessageClass) {
	message, ok := msg.(*tg.Message)
	if !ok {
		return
	}
	if message.Out || message.Message == "" {
		return
	}

	peer, ok := message.PeerID.(*tg.PeerUser)
	if !ok {
		return
	}

	h.forward(peer.UserID, message.Message, int64(message.Date))
}

// handleShortMessage processes a short direct message update
func (h *Handler) handleShortMessage(msg *tg.UpdateShortMessage) {
	if msg.Out || msg.Message == "" {
		return
	}

	h.forward(msg.UserID, msg.Message, int64(msg.Date))
}

func (h *Handler) forward(userID int64, text string, date int64) {
	senderName := fmt.Sprintf("User %d", userID)
	h.mu.RLock()
	if user, ok := h.users[userID]; ok {
		senderName = displayName(user)
	}
	h.mu.RUnlock()

	fmt.Printf("[Telegram DM: %s] %s\n", senderName, truncateText(text, 100))

	select {
	case h.messageChan <- source.Message{
		ChatID:     userID,
		SenderName: senderName,
		Text:       text,
		Timestamp:  time.Unix(date, 0),
	}:
	default:
		fmt.Println("Telegram: message channel full, dropping message")
	}
}

// displayName returns a display name for a user
func displayName(user *tg.User) string {
	if user.FirstName != "" {
		if user.LastName != "" {
			return user.FirstName + " " + user.LastName
		}
		return user.FirstName
	}
	if user.Username != "" {
		return "@" + user.Username
	}
	return fmt.Sprintf("User %d", user.ID)
}

// truncateText shortens text for logging
func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
