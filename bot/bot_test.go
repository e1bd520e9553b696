package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/service"
	"github.com/pivolan/genbi/store"
)

type fakeAPI struct {
	fileURL string

	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	if f.fileURL == "" {
		return "", errors.New("file is too big")
	}
	return f.fileURL + "/" + fileID, nil
}

func (f *fakeAPI) last(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	msg, ok := f.last(t).(tgbotapi.MessageConfig)
	require.True(t, ok, "expected a text message, got %T", f.last(t))
	return msg.Text
}

type fakeQuery struct {
	data models.ChartData
	got  service.QueryRequest
}

func (q *fakeQuery) Query(_ context.Context, req service.QueryRequest) (models.ChartData, error) {
	q.got = req
	return q.data, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBot(api *fakeAPI, q service.QueryService) *Bot {
	datasets := service.NewDatasetService(store.NewMemoryStore(), discardLogger())
	return New(api, datasets, service.NewQuerier(q, discardLogger()), discardLogger())
}

func textMessage(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: 7},
		Text: text,
	}}
}

func command(chatID int64, name, args string) tgbotapi.Update {
	u := textMessage(chatID, "/"+name)
	if args != "" {
		u.Message.Text += " " + args
	}
	u.Message.Entities = &[]tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name) + 1}}
	return u
}

func document(chatID int64, fileID, name string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: 7},
		Document: &tgbotapi.Document{FileID: fileID, FileName: name},
	}}
}

func fileServer(t *testing.T, content string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, content)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStartCommand(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, &fakeQuery{})
	b.Handle(context.Background(), command(1, "start", ""))
	assert.Contains(t, api.lastText(t), "Send a CSV file")
}

func TestQueryBeforeUpload(t *testing.T) {
	api := &fakeAPI{}
	q := &fakeQuery{}
	b := newTestBot(api, q)
	b.Handle(context.Background(), textMessage(1, "revenue by month"))
	assert.Equal(t, "Send a CSV file first, then ask about it.", api.lastText(t))
	assert.Empty(t, q.got.Query)
}

func TestDocumentThenQuery(t *testing.T) {
	srv := fileServer(t, "month,revenue\nJan,100\nFeb,200\n")
	api := &fakeAPI{fileURL: srv.URL}
	q := &fakeQuery{data: models.ChartData{
		ChartConfig: models.ChartConfig{Type: models.KindBar, Title: "Revenue"},
		Data:        []models.Row{{"x": "Jan", "y": 100.0}, {"x": "Feb", "y": 200.0}},
	}}
	b := newTestBot(api, q)
	ctx := context.Background()

	b.Handle(ctx, document(5, "f1", "sales.csv"))
	preview := api.lastText(t)
	assert.Contains(t, preview, "<pre>")
	assert.Contains(t, preview, "sales: 2 rows")
	assert.Contains(t, preview, "Feb")

	b.Handle(ctx, textMessage(5, "  revenue by month "))
	assert.Equal(t, "revenue by month", q.got.Query)
	assert.Equal(t, "7", q.got.UserID)
	assert.NotEmpty(t, q.got.DatasetID)

	photo, ok := api.last(t).(tgbotapi.PhotoConfig)
	require.True(t, ok, "charts go out as photos")
	assert.Equal(t, "Revenue", photo.Caption)
	file, ok := photo.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, []byte("\x89PNG"), file.Bytes[:4])

	b.Handle(ctx, command(5, "kinds", ""))
	assert.Equal(t, "Available: table, datatable, bar, line, histogram, pie", api.lastText(t))

	b.Handle(ctx, command(5, "kind", "table"))
	table := api.last(t).(tgbotapi.MessageConfig)
	assert.Equal(t, tgbotapi.ModeHTML, table.ParseMode)
	assert.Contains(t, table.Text, "Jan")

	b.Handle(ctx, command(5, "kind", "pivot"))
	assert.Contains(t, api.lastText(t), "not available")
}

func TestDatasetsArePerChat(t *testing.T) {
	srv := fileServer(t, "a,b\n1,2\n")
	api := &fakeAPI{fileURL: srv.URL}
	b := newTestBot(api, &fakeQuery{})
	b.Handle(context.Background(), document(1, "f1", "one.csv"))
	b.Handle(context.Background(), textMessage(2, "anything"))
	assert.Equal(t, "Send a CSV file first, then ask about it.", api.lastText(t))
}

func TestDocumentErrors(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, &fakeQuery{})
	b.Handle(context.Background(), document(1, "f1", "big.csv"))
	assert.Contains(t, api.lastText(t), "Upload failed: get file url")

	api.fileURL = fileServer(t, "\n\n").URL
	b.Handle(context.Background(), document(1, "f2", "empty.csv"))
	assert.Contains(t, api.lastText(t), "Invalid CSV header")
}

func TestServeStopsOnClose(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, &fakeQuery{})
	updates := make(chan tgbotapi.Update, 2)
	updates <- command(1, "help", "")
	updates <- tgbotapi.Update{}
	close(updates)

	b.Serve(context.Background(), updates)
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Len(t, api.sent, 1)
}
