package bot

import (
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/planetban/hadirbot/internal/attendance"
	"github.com/planetban/hadirbot/internal/messages"
)

// /hadir <passcode>
func (b *Bot) handleHadir(c tele.Context) error {
	msg := c.Message()
	user := c.Sender()
	if msg == nil || user == nil {
		// channel posts carry no sender to check in
		return nil
	}

	res, err := b.eval.Evaluate(attendance.Request{
		RequesterID: user.ID,
		DisplayName: messages.FullName(user.FirstName, user.LastName),
		Time:        msg.Time(),
		Args:        strings.Fields(msg.Payload),
	})
	if err != nil {
		// not a user error: goes to the developers
		return err
	}

	b.log.Info("check-in evaluated",
		zap.Int64("user", user.ID),
		zap.Stringer("outcome", res.Outcome))
	return c.Send(res.Text, tele.ModeHTML)
}
