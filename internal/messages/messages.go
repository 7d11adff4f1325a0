// Package messages renders every user-facing reply of the bot.
package messages

import (
	"fmt"
	"html"
	"strings"
)

type Kind int

const (
	Start Kind = iota
	Help
	ReportMenu
	ReportChosen
	Unknown
	Apology
	OutsideHours
	MissingPasscode
	WrongPasscode
	CheckedIn
)

const (
	emoHeartEyes = "\U0001F60D"
	emoWink      = "\U0001F609"
	emoBook      = "\U0001F4D6"
	emoHushed    = "\U0001F62F"
	emoPersevere = "\U0001F623"
	emoQuestion  = "❓"
	emoStart     = "▶️"
	emoCry       = "\U0001F622"
)

// Params holds the values a template may embed. Mention is already HTML.
type Params struct {
	Mention   string
	Timestamp string
	Selection string
}

// Render returns the text for kind. Replies that embed a mention or
// markup are meant to be sent with HTML parse mode.
func Render(kind Kind, p Params) string {
	switch kind {
	case Start:
		return "Halo salam kenal! Aku Bot dari Planet Ban " + emoHeartEyes
	case Help:
		return helpText()
	case ReportMenu:
		return "Silakan dipilih menunya yaa"
	case ReportChosen:
		return fmt.Sprintf("Bagus! kamu memilih <b>%s</b> tapi maaf yaa ini baru dikembangkan %s ini file yang kamu mau",
			html.EscapeString(p.Selection), emoWink)
	case Unknown:
		return "Duh maaf!, aku gak ngerti yang kamu maksud " + emoPersevere
	case Apology:
		return fmt.Sprintf("Hey. Maaf yaa ada kesalahan saat aku mencoba menangani pembaruan mu %s, tapi para developer ku lagi berusaha memperbaikinya %s",
			emoCry, emoWink)
	case OutsideHours:
		return fmt.Sprintf("Maaf %s kehadiran mu tidak dalam jam operasional toko!", p.Mention)
	case MissingPasscode:
		return fmt.Sprintf("%s passcode gak boleh kosong yaa!", p.Mention)
	case WrongPasscode:
		return fmt.Sprintf("%s passcode kamu salah!", p.Mention)
	case CheckedIn:
		return fmt.Sprintf("Kehadiran %s berhasil di catat pada <code>%s</code>", p.Mention, p.Timestamp)
	}
	return ""
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("Hei, kamu butuh bantuan ya? " + emoHushed + ", aku masih dikembangkan jadi maaf yaa kalo aku masih bingung.\n")
	sb.WriteString("Ini adalah perintah yang aku mengerti, silakan panggil aku dengan memberikan perintah dibawah ini yaaa " + emoWink + "\n\n")
	sb.WriteString("/start - " + emoStart + " mulai dari sini yaaa kalo belum\n")
	sb.WriteString("/help - " + emoQuestion + " butuh bantuan aku?\n")
	sb.WriteString("/laporan - " + emoBook + " kamu mau melihat laporan?\n")
	sb.WriteString("/hadir <passcode> - catat kehadiran kamu")
	return sb.String()
}

// Mention builds an HTML link to a Telegram user.
func Mention(userID int64, name string) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, userID, html.EscapeString(name))
}

// FullName joins first and last name the way Telegram clients show them.
func FullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
