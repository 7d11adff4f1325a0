package bot

import (
	"bytes"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/planetban/hadirbot/internal/config"
	"github.com/planetban/hadirbot/internal/messages"
	"github.com/planetban/hadirbot/internal/report"
)

const reportUnique = "laporan"

// reportBtn is the endpoint shared by every menu button.
var reportBtn = tele.Btn{Unique: reportUnique}

func reportMenu(items []config.ReportItem) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	btns := make([]tele.Btn, 0, len(items))
	for _, item := range items {
		btns = append(btns, menu.Data(item.Label, reportUnique, item.Title))
	}
	menu.Inline(menu.Split(2, btns)...)
	return menu
}

func (b *Bot) handleLaporan(c tele.Context) error {
	return c.Send(messages.Render(messages.ReportMenu, messages.Params{}), b.menu)
}

func (b *Bot) handleReportChoice(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	selection := cb.Data

	if err := c.Respond(); err != nil {
		b.log.Debug("callback answer failed", zap.Error(err))
	}

	text := messages.Render(messages.ReportChosen, messages.Params{Selection: selection})
	if err := c.Edit(text, tele.ModeHTML); err != nil {
		return err
	}

	f, err := b.reports.Open(selection)
	if err != nil {
		return err
	}
	return c.Send(document(f))
}

func document(f report.File) *tele.Document {
	doc := &tele.Document{FileName: f.Name, MIME: "application/pdf"}
	if f.Path != "" {
		doc.File = tele.FromDisk(f.Path)
	} else {
		doc.File = tele.FromReader(bytes.NewReader(f.Data))
	}
	return doc
}
