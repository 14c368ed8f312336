package telegram

import (
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleUpdate_ShortMessage(t *testing.T) {
	h := NewHandler()

	h.HandleUpdate(&tg.UpdateShortMessage{
		UserID:  42,
		Message: "hello",
		Date:    1700000000,
	})

	select {
	case msg := <-h.MessageChan():
		assert.Equal(t, int64(42), msg.ChatID)
		assert.Equal(t, "hello", msg.Text)
	default:
		t.Fatal("expected a forwarded message")
	}
}

func TestHandleUpdate_CachesUsersAndNamesSender(t *testing.T) {
	h := NewHandler()

	h.HandleUpdate(&tg.Updates{
		Users: []tg.UserClass{
			&tg.User{ID: 42, AccessHash: 99, FirstName: "Alex", LastName: "Doe"},
		},
		Updates: []tg.UpdateClass{
			&tg.UpdateNewMessage{Message: &tg.Message{
				Message: "hi there",
				PeerID:  &tg.PeerUser{UserID: 42},
				Date:    1700000000,
			}},
		},
	})

	select {
	case msg := <-h.MessageChan():
		assert.Equal(t, "Alex Doe", msg.SenderName)
		assert.Equal(t, "hi there", msg.Text)
	default:
		t.Fatal("expected a forwarded message")
	}

	peer, err := h.InputPeer(42)
	require.NoError(t, err)
	user, ok := peer.(*tg.InputPeerUser)
	require.True(t, ok)
	assert.Equal(t, int64(99), user.AccessHash)
}

func TestHandleUpdate_IgnoresOutgoingAndEmpty(t *testing.T) {
	h := NewHandler()

	h.HandleUpdate(&tg.UpdateShortMessage{UserID: 42, Out: true, Message: "sent by us"})
	h.HandleUpdate(&tg.UpdateShortMessage{UserID: 42, Message: ""})

	select {
	case msg := <-h.MessageChan():
		t.Fatalf("unexpected forwarded message: %q", msg.Text)
	default:
	}
}

func TestHandleUpdate_IgnoresGroupMessages(t *testing.T) {
	h := NewHandler()

	h.HandleUpdate(&tg.UpdateShortChatMessage{ChatID: 5, Message: "group chatter"})
	h.HandleUpdate(&tg.Updates{
		Updates: []tg.UpdateClass{
			&tg.UpdateNewMessage{Message: &tg.Message{
				Message: "channel post",
				PeerID:  &tg.PeerChannel{ChannelID: 7},
			}},
		},
	})

	select {
	case msg := <-h.MessageChan():
		t.Fatalf("unexpected forwarded message: %q", msg.Text)
	default:
	}
}

func TestInputPeer_UnknownChat(t *testing.T) {
	h := NewHandler()

	_, err := h.InputPeer(123)
	assert.Error(t, err)
}
