// Package bot is the Telegram front-end: CSV documents become datasets and text
// messages become questions whose answers come back as charts or tables.
package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/ingest"
	"github.com/pivolan/genbi/service"
	"github.com/pivolan/genbi/tables"
	"github.com/pivolan/genbi/view"
)

const helpText = `This bot builds charts from your data.

1. Send a CSV file (plain, gzip, lz4 or zip).
2. Ask a question about it, e.g. "revenue by region".
3. Use /kinds to see other chart types for the last answer and /kind <type> to switch.`

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// chat is what the bot remembers per conversation. Containers are replaced, never
// switched in place.
type chat struct {
	datasetID string
	last      *view.Container
}

type Bot struct {
	api      API
	datasets *service.DatasetService
	querier  *service.Querier
	client   *http.Client
	logger   *slog.Logger

	mu    sync.Mutex
	chats map[int64]*chat
}

func New(api API, datasets *service.DatasetService, querier *service.Querier, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:      api,
		datasets: datasets,
		querier:  querier,
		client:   http.DefaultClient,
		logger:   logger,
		chats:    map[int64]*chat{},
	}
}

// Serve handles updates until ctx is done or the channel closes.
func (b *Bot) Serve(ctx context.Context, updates <-chan tgbotapi.Update) {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.Handle(ctx, update)
			}()
		}
	}
}

// Handle dispatches one update.
func (b *Bot) Handle(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.Chat == nil {
		return
	}
	switch {
	case message.Document != nil:
		b.handleDocument(ctx, message)
	case message.IsCommand():
		b.handleCommand(message)
	case strings.TrimSpace(message.Text) != "":
		b.handleQuery(ctx, message)
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	switch message.Command() {
	case "start", "help":
		b.reply(chatID, helpText)
	case "kinds":
		c := b.snapshot(chatID).last
		if c == nil {
			b.reply(chatID, "Ask a question first.")
			return
		}
		names := make([]string, len(c.Kinds()))
		for i, k := range c.Kinds() {
			names[i] = string(k)
		}
		b.reply(chatID, "Available: "+strings.Join(names, ", "))
	case "kind":
		c := b.snapshot(chatID).last
		if c == nil {
			b.reply(chatID, "Ask a question first.")
			return
		}
		next := view.New(c.Data())
		if err := next.Switch(models.ChartKind(strings.TrimSpace(message.CommandArguments()))); err != nil {
			b.reply(chatID, err.Error())
			return
		}
		b.mu.Lock()
		b.stateLocked(chatID).last = next
		b.mu.Unlock()
		b.sendView(chatID, next)
	default:
		b.reply(chatID, "Unknown command. "+helpText)
	}
}

func (b *Bot) handleQuery(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	st := b.snapshot(chatID)
	if st.datasetID == "" {
		b.reply(chatID, "Send a CSV file first, then ask about it.")
		return
	}
	data, err := b.querier.Process(ctx, service.QueryRequest{
		Query:     message.Text,
		DatasetID: st.datasetID,
		UserID:    userID(message),
	})
	if err != nil {
		b.logger.Error("query failed", "chat_id", chatID, "error", err)
		b.reply(chatID, "Could not answer: "+err.Error())
		return
	}
	c := view.New(data)
	b.mu.Lock()
	b.stateLocked(chatID).last = c
	b.mu.Unlock()
	if data.Summary != "" {
		b.reply(chatID, data.Summary)
	}
	b.sendView(chatID, c)
}

func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ds, err := b.ingest(ctx, message)
	if err != nil {
		b.logger.Error("document upload failed", "chat_id", chatID, "file", message.Document.FileName, "error", err)
		b.reply(chatID, "Upload failed: "+err.Error())
		return
	}
	b.mu.Lock()
	st := b.stateLocked(chatID)
	st.datasetID = ds.ID
	st.last = nil
	b.mu.Unlock()

	columns := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		columns[i] = c.Name
	}
	preview := tables.Write(fmt.Sprintf("%s: %d rows", ds.Name, ds.RowCount), columns, ds.SampleData, tables.OutputText)
	b.replyPre(chatID, preview)
}

// ingest downloads the document, unpacks it and uploads it in chunks.
func (b *Bot) ingest(ctx context.Context, message *tgbotapi.Message) (models.Dataset, error) {
	url, err := b.api.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("get file url: %w", err)
	}
	dir, err := os.MkdirTemp("", "genbi-bot-*")
	if err != nil {
		return models.Dataset{}, err
	}
	defer os.RemoveAll(dir)

	name := filepath.Base(message.Document.FileName)
	if name == "." || name == string(filepath.Separator) {
		name = "upload.csv"
	}
	path := filepath.Join(dir, name)
	if err := b.download(ctx, url, path); err != nil {
		return models.Dataset{}, err
	}
	if path, err = ingest.UnpackArchive(path, filepath.Join(dir, "unpacked")); err != nil {
		return models.Dataset{}, models.ErrValidation("Error unpacking archive: %v", err)
	}
	fh, f, err := ingest.OpenFile(path)
	if err != nil {
		return models.Dataset{}, err
	}
	defer fh.Close()
	f.UserID = userID(message)
	f.Description = message.Caption
	return ingest.NewUploader(b.datasets, ingest.WithLogger(b.logger)).Upload(ctx, f, nil)
}

func (b *Bot) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: %s", resp.Status)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("download file: %w", err)
	}
	return out.Close()
}

// snapshot returns a copy of the chat state.
func (b *Bot) snapshot(chatID int64) chat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.stateLocked(chatID)
}

func (b *Bot) stateLocked(chatID int64) *chat {
	st, ok := b.chats[chatID]
	if !ok {
		st = &chat{}
		b.chats[chatID] = st
	}
	return st
}

func userID(message *tgbotapi.Message) string {
	if message.From != nil {
		return strconv.Itoa(message.From.ID)
	}
	return strconv.FormatInt(message.Chat.ID, 10)
}
