package telegram

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"mafiabot/core/flow"
)

// Sender adapts a telebot bot to the engine's flow.Sender port.
type Sender struct {
	bot *tele.Bot
}

// NewSender wraps a running bot.
func NewSender(bot *tele.Bot) *Sender {
	return &Sender{bot: bot}
}

// SendText delivers a plain text message with an optional reply keyboard.
func (s *Sender) SendText(_ context.Context, userID int64, text string, kb flow.Keyboard) error {
	_, err := s.bot.Send(&tele.User{ID: userID}, text, sendOptions(kb)...)
	if err != nil {
		return fmt.Errorf("telegram: send text: %w", err)
	}
	return nil
}

// SendMedia delivers a photo or video, by cached file ID when available or by
// uploading the provided reader, and reports the file ID Telegram issued.
func (s *Sender) SendMedia(_ context.Context, userID int64, kind flow.MediaKind, media flow.Upload, caption string, kb flow.Keyboard) (string, error) {
	file := tele.File{FileID: media.FileID}
	if media.FileID == "" {
		file = tele.FromReader(media.Reader)
	}

	var payload interface{}
	switch kind {
	case flow.MediaPhoto:
		payload = &tele.Photo{File: file, Caption: caption}
	case flow.MediaVideo:
		payload = &tele.Video{File: file, Caption: caption}
	default:
		return "", fmt.Errorf("telegram: unsupported media kind %d", kind)
	}

	msg, err := s.bot.Send(&tele.User{ID: userID}, payload, sendOptions(kb)...)
	if err != nil {
		return "", fmt.Errorf("telegram: send media: %w", err)
	}

	switch {
	case msg.Photo != nil:
		return msg.Photo.FileID, nil
	case msg.Video != nil:
		return msg.Video.FileID, nil
	case msg.Animation != nil:
		return msg.Animation.FileID, nil
	}
	return "", nil
}

func sendOptions(kb flow.Keyboard) []interface{} {
	if markup := markupFor(kb); markup != nil {
		return []interface{}{markup}
	}
	return nil
}

var _ flow.Sender = (*Sender)(nil)
