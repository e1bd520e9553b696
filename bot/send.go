package bot

import (
	"fmt"
	"html"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/genbi/plot"
	"github.com/pivolan/genbi/tables"
	"github.com/pivolan/genbi/view"
)

// Telegram recompresses photos; images above this go out as documents.
const maxPhotoSize = 150000

// Telegram rejects messages longer than this.
const maxMessageLen = 4096

func (b *Bot) sendView(chatID int64, c *view.Container) {
	v := c.Render(plot.Viewport{})
	if v.Scene == nil {
		text, err := v.Text(tables.OutputText)
		if err != nil {
			b.reply(chatID, err.Error())
			return
		}
		b.replyPre(chatID, text)
		return
	}
	img, err := v.Image(plot.FormatPNG)
	if err != nil {
		b.logger.Error("draw chart", "chat_id", chatID, "kind", v.Kind, "error", err)
		b.reply(chatID, "Could not draw the chart.")
		return
	}
	b.sendImage(chatID, img, string(v.Kind), c.Config().Title)
}

func (b *Bot) sendImage(chatID int64, img []byte, kind, title string) {
	file := tgbotapi.FileBytes{
		Name:  fmt.Sprintf("%s_%s.png", kind, time.Now().Format("20060102-150405")),
		Bytes: img,
	}
	var msg tgbotapi.Chattable
	if len(img) < maxPhotoSize {
		photo := tgbotapi.NewPhotoUpload(chatID, file)
		photo.Caption = title
		msg = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(chatID, file)
		doc.Caption = title
		msg = doc
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send chart", "chat_id", chatID, "kind", kind, "error", err)
		b.reply(chatID, fmt.Sprintf("Could not send the %s chart: %v", kind, err))
	}
}

// replyPre sends preformatted text, as a file when it does not fit in a message.
func (b *Bot) replyPre(chatID int64, text string) {
	body := "<pre>\n" + html.EscapeString(text) + "\n</pre>"
	if len(body) > maxMessageLen {
		doc := tgbotapi.NewDocumentUpload(chatID, tgbotapi.FileBytes{
			Name:  "table" + time.Now().Format("20060102-150405") + ".txt",
			Bytes: []byte(text),
		})
		b.send(chatID, doc)
		return
	}
	msg := tgbotapi.NewMessage(chatID, body)
	msg.ParseMode = tgbotapi.ModeHTML
	b.send(chatID, msg)
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(chatID, tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(chatID int64, msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", "chat_id", chatID, "error", err)
	}
}
