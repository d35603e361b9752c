package telegram

import (
	tele "gopkg.in/telebot.v4"

	"mafiabot/core/flow"
)

// ReplyButtons builds a reply keyboard with one button per row, the way the
// script renders its continuation prompts.
func ReplyButtons(labels []string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := make([]tele.Row, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, markup.Row(markup.Text(label)))
	}
	markup.Reply(rows...)
	return markup
}

// RemoveKeyboard returns a markup that hides the keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// markupFor converts the engine's keyboard description into telebot markup,
// or nil when the message carries none.
func markupFor(kb flow.Keyboard) *tele.ReplyMarkup {
	switch {
	case kb.Remove:
		return RemoveKeyboard()
	case len(kb.Buttons) > 0:
		return ReplyButtons(kb.Buttons)
	default:
		return nil
	}
}
