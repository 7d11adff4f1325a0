package bot

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	tele "gopkg.in/telebot.v3"

	"github.com/planetban/hadirbot/internal/config"
	"github.com/planetban/hadirbot/internal/notify"
)

// MockContext definition for internal use
type MockContext struct {
	tele.Context
	MessageVal  *tele.Message
	SenderVal   *tele.User
	CallbackVal *tele.Callback

	SentMsg  []interface{}
	SentOpts [][]interface{}
	Edited   interface{}
	Replies  []interface{}
	Actions  []tele.ChatAction
}

func (m *MockContext) Message() *tele.Message   { return m.MessageVal }
func (m *MockContext) Sender() *tele.User       { return m.SenderVal }
func (m *MockContext) Chat() *tele.Chat         { return &tele.Chat{ID: 1, Type: tele.ChatPrivate} }
func (m *MockContext) Callback() *tele.Callback { return m.CallbackVal }
func (m *MockContext) Update() tele.Update      { return tele.Update{Message: m.MessageVal} }
func (m *MockContext) Respond(...*tele.CallbackResponse) error {
	return nil
}
func (m *MockContext) Notify(action tele.ChatAction) error {
	m.Actions = append(m.Actions, action)
	return nil
}
func (m *MockContext) Send(what interface{}, opts ...interface{}) error {
	m.SentMsg = append(m.SentMsg, what)
	m.SentOpts = append(m.SentOpts, opts)
	return nil
}
func (m *MockContext) Edit(what interface{}, opts ...interface{}) error {
	m.Edited = what
	return nil
}
func (m *MockContext) Reply(what interface{}, opts ...interface{}) error {
	m.Replies = append(m.Replies, what)
	return nil
}

func (m *MockContext) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.SentMsg)
	s, ok := m.SentMsg[len(m.SentMsg)-1].(string)
	require.True(t, ok, "last message is not text")
	return s
}

type devSender struct {
	to    []string
	texts []string
}

func (d *devSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	d.to = append(d.to, to.Recipient())
	d.texts = append(d.texts, what.(string))
	return &tele.Message{}, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Token = "test"
	cfg.Developers = []int64{111, 222}
	cfg.ReportFile = filepath.Join(t.TempDir(), "missing.pdf")
	return cfg
}

func newTestBot(t *testing.T) (*Bot, *devSender) {
	t.Helper()
	b, err := newBot(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	devs := &devSender{}
	b.notifier = notify.New(devs, b.cfg.Developers, 1, b.log)
	return b, devs
}

// at returns a message sent at the given Jakarta (UTC+7) wall-clock time.
func at(h, m int, payload string) *tele.Message {
	ts := time.Date(2024, 3, 5, h, m, 0, 0, time.FixedZone("WIB", 7*3600))
	return &tele.Message{Unixtime: ts.Unix(), Payload: payload, Text: strings.TrimSpace("/hadir " + payload)}
}

var budi = &tele.User{ID: 42, FirstName: "Budi", LastName: "Santoso"}

func TestBotHandlers(t *testing.T) {
	b, _ := newTestBot(t)

	t.Run("Start", func(t *testing.T) {
		ctx := &MockContext{MessageVal: &tele.Message{Text: "/start"}}
		require.NoError(t, b.handleStart(ctx))
		assert.Contains(t, ctx.lastText(t), "Bot dari Planet Ban")
	})

	t.Run("Help", func(t *testing.T) {
		ctx := &MockContext{MessageVal: &tele.Message{Text: "/help"}}
		require.NoError(t, b.handleHelp(ctx))
		msg := ctx.lastText(t)
		for _, cmd := range []string{"/start", "/help", "/laporan"} {
			assert.Contains(t, msg, cmd)
		}
	})

	t.Run("Unknown command", func(t *testing.T) {
		ctx := &MockContext{MessageVal: &tele.Message{Text: "/nope"}}
		require.NoError(t, b.handleText(ctx))
		assert.Contains(t, ctx.lastText(t), "aku gak ngerti")
	})

	t.Run("Plain text ignored", func(t *testing.T) {
		ctx := &MockContext{MessageVal: &tele.Message{Text: "halo"}}
		require.NoError(t, b.handleText(ctx))
		assert.Empty(t, ctx.SentMsg)
	})
}

func TestHadir(t *testing.T) {
	b, devs := newTestBot(t)

	t.Run("Accepted", func(t *testing.T) {
		ctx := &MockContext{MessageVal: at(10, 0, "12345"), SenderVal: budi}
		require.NoError(t, b.handleHadir(ctx))

		msg := ctx.lastText(t)
		assert.Contains(t, msg, `<a href="tg://user?id=42">Budi Santoso</a>`)
		assert.Contains(t, msg, "<code>03/05/2024, 10:00:00</code>")
		assert.Equal(t, []interface{}{tele.ModeHTML}, ctx.SentOpts[0])
	})

	t.Run("Outside hours", func(t *testing.T) {
		ctx := &MockContext{MessageVal: at(22, 0, "12345"), SenderVal: budi}
		require.NoError(t, b.handleHadir(ctx))
		assert.Contains(t, ctx.lastText(t), "tidak dalam jam operasional")
	})

	t.Run("Missing passcode", func(t *testing.T) {
		ctx := &MockContext{MessageVal: at(10, 0, "  "), SenderVal: budi}
		require.NoError(t, b.handleHadir(ctx))
		assert.Contains(t, ctx.lastText(t), "passcode gak boleh kosong")
	})

	t.Run("Wrong passcode", func(t *testing.T) {
		ctx := &MockContext{MessageVal: at(10, 0, "11111"), SenderVal: budi}
		require.NoError(t, b.handleHadir(ctx))
		assert.Contains(t, ctx.lastText(t), "passcode kamu salah")
	})

	t.Run("Passcode too large for int", func(t *testing.T) {
		ctx := &MockContext{MessageVal: at(10, 0, "99999999999999999999"), SenderVal: budi}
		require.NoError(t, b.handleHadir(ctx))
		assert.Contains(t, ctx.lastText(t), "passcode kamu salah")
		assert.Empty(t, devs.to)
	})

	t.Run("Non-numeric passcode reaches developers", func(t *testing.T) {
		ctx := &MockContext{MessageVal: at(10, 0, "abc"), SenderVal: budi}
		err := b.handleHadir(ctx)
		require.Error(t, err)
		assert.Empty(t, ctx.SentMsg)

		b.onError(err, ctx)

		require.Len(t, ctx.Replies, 1)
		assert.Contains(t, ctx.Replies[0], "Maaf yaa ada kesalahan")
		assert.Equal(t, []string{"111", "222"}, devs.to)
		for _, text := range devs.texts {
			assert.Contains(t, text, "invalid passcode")
			assert.Contains(t, text, "handleHadir")
		}
	})
}

func TestHadirLongPayload(t *testing.T) {
	b, devs := newTestBot(t)

	ctx := &MockContext{MessageVal: at(10, 0, strings.Repeat("x", 3000)), SenderVal: budi}
	err := b.handleHadir(ctx)
	require.Error(t, err)

	b.onError(err, ctx)

	require.Len(t, devs.texts, 2)
	for _, text := range devs.texts {
		assert.LessOrEqual(t, utf8.RuneCountInString(text), 4096)
		assert.True(t, utf8.ValidString(text))
		assert.Contains(t, text, "invalid passcode")
		assert.Contains(t, text, "handleHadir")
	}
}

func TestReportMenu(t *testing.T) {
	b, _ := newTestBot(t)

	t.Run("Menu", func(t *testing.T) {
		ctx := &MockContext{MessageVal: &tele.Message{Text: "/laporan"}}
		require.NoError(t, b.handleLaporan(ctx))

		assert.Equal(t, "Silakan dipilih menunya yaa", ctx.SentMsg[0])
		require.Len(t, ctx.SentOpts[0], 1)
		markup, ok := ctx.SentOpts[0][0].(*tele.ReplyMarkup)
		require.True(t, ok)
		require.Len(t, markup.InlineKeyboard, 2)
		assert.Len(t, markup.InlineKeyboard[0], 2)
		assert.Len(t, markup.InlineKeyboard[1], 1)
		assert.Equal(t, "Kehadiran Karyawan", markup.InlineKeyboard[1][0].Text)
		assert.Contains(t, markup.InlineKeyboard[0][1].Data, "Laporan Data Penjualan")
	})

	t.Run("Choice sends document", func(t *testing.T) {
		ctx := &MockContext{CallbackVal: &tele.Callback{Data: "Laporan Data Penjualan"}}
		require.NoError(t, b.handleReportChoice(ctx))

		assert.Contains(t, ctx.Edited, "<b>Laporan Data Penjualan</b>")
		require.Len(t, ctx.SentMsg, 1)
		doc, ok := ctx.SentMsg[0].(*tele.Document)
		require.True(t, ok)
		assert.Equal(t, "laporan-data-penjualan.pdf", doc.FileName)
		assert.Equal(t, "application/pdf", doc.MIME)
	})
}

func TestHooks(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b, _ := newTestBot(t)
	b.log = zap.New(core)

	h := b.hooks("/hadir", tele.Typing)(b.handleHadir)
	ctx := &MockContext{MessageVal: at(10, 0, "12345"), SenderVal: budi}
	require.NoError(t, h(ctx))

	assert.Equal(t, []tele.ChatAction{tele.Typing}, ctx.Actions)
	entries := logs.FilterMessage("handled").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/hadir", entries[0].ContextMap()["handler"])
	assert.Equal(t, int64(42), entries[0].ContextMap()["user"])
}

func TestHooksOrder(t *testing.T) {
	var calls []string
	h := Hooks{
		Before: func(tele.Context) { calls = append(calls, "before") },
		After:  func(tele.Context, error, time.Duration) { calls = append(calls, "after") },
	}
	err := h.Wrap(func(tele.Context) error {
		calls = append(calls, "handler")
		return errors.New("boom")
	})(&MockContext{})

	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"before", "handler", "after"}, calls)
}

func TestRecoverPanic(t *testing.T) {
	b, devs := newTestBot(t)

	h := recoverPanic(func(tele.Context) error {
		var m map[string]int
		m["boom"]++
		return nil
	})
	ctx := &MockContext{MessageVal: &tele.Message{Text: "/start"}, SenderVal: budi}
	err := h(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")

	b.onError(err, ctx)
	assert.Len(t, ctx.Replies, 1)
	require.Len(t, devs.texts, 2)
	assert.Contains(t, devs.texts[0], "assignment to entry in nil map")
	assert.Contains(t, devs.texts[0], "TestRecoverPanic")
}

func TestRecoverPanicValue(t *testing.T) {
	h := recoverPanic(func(tele.Context) error {
		panic(struct{ Code int }{42})
	})
	err := h(&MockContext{})
	require.Error(t, err)
	assert.Equal(t, "panic: {42}", err.Error())
	assert.Contains(t, notify.StackTrace(err), "TestRecoverPanicValue")
}
