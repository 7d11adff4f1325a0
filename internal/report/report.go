// Package report resolves the document sent back for a /laporan menu
// selection.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// File is either a path on disk or an in-memory PDF.
type File struct {
	Name string
	Path string
	Data []byte
}

type Source struct {
	path string
	now  func() time.Time
	loc  *time.Location
}

// NewSource serves the static file at path. When the file is missing a
// sample report is generated instead.
func NewSource(path string, loc *time.Location) *Source {
	if loc == nil {
		loc = time.UTC
	}
	return &Source{path: path, now: time.Now, loc: loc}
}

// Open returns the document for the chosen report title.
func (s *Source) Open(title string) (File, error) {
	if s.path != "" {
		if info, err := os.Stat(s.path); err == nil && !info.IsDir() {
			return File{Name: filepath.Base(s.path), Path: s.path}, nil
		}
	}

	var buf bytes.Buffer
	if err := Render(&buf, title, s.now().In(s.loc)); err != nil {
		return File{}, err
	}
	return File{Name: slug(title) + ".pdf", Data: buf.Bytes()}, nil
}

// Render writes a one-page sample report.
func Render(w io.Writer, title string, generated time.Time) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.SetTitle(title, true)
	doc.SetAuthor("Planet Ban", true)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.CellFormat(0, 8, "Planet Ban", "", 0, "C", false, 0, "")
	})

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(120, 120, 120)
	doc.CellFormat(0, 6, tr("Dibuat pada "+generated.Format("02/01/2006 15:04 MST")), "", 1, "L", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(0, 0, 0)
	doc.MultiCell(0, 6, tr(fmt.Sprintf(
		"Ini adalah contoh %s. Laporan lengkap masih dalam pengembangan.", strings.ToLower(title))),
		"", "L", false)

	if err := doc.Output(w); err != nil {
		return errors.Wrap(err, "render report")
	}
	return nil
}

// Inspect opens a PDF on disk and returns its page count.
func Inspect(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return r.NumPage(), nil
}

// InspectBytes is Inspect for an in-memory PDF.
func InspectBytes(b []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return 0, errors.Wrap(err, "read pdf")
	}
	return r.NumPage(), nil
}

var reNonAlnum = regexp.MustCompile("[^a-z0-9]+")

func slug(s string) string {
	s = reNonAlnum.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "laporan"
	}
	return s
}
