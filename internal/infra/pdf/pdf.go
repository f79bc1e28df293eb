package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/IT-Nick/assessment-bot/internal/domain/report"
	"github.com/jung-kurt/gofpdf"
)

const fontFamily = "DejaVu"

var stripTags = strings.NewReplacer("<br>", "\n", "<b>", "", "</b>", "", "<i>", "", "</i>")

// Renderer формирует PDF отчет по групповому тестированию
type Renderer struct {
	font     string
	fontBold string
}

// NewRenderer создает Renderer. Пути к UTF-8 шрифтам нужны для кириллицы,
// без них используется встроенный Helvetica.
func NewRenderer(font, fontBold string) *Renderer {
	return &Renderer{font: font, fontBold: fontBold}
}

// Render формирует отчет: сводка по группе, график и рекомендации по категориям
func (r *Renderer) Render(g report.GroupEmail, chart []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	family := "Helvetica"
	if r.font != "" {
		pdf.AddUTF8Font(fontFamily, "", r.font)
		bold := r.fontBold
		if bold == "" {
			bold = r.font
		}
		pdf.AddUTF8Font(fontFamily, "B", bold)
		family = fontFamily
	}
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.MultiCell(0, 10, fmt.Sprintf("Отчет по групповому тестированию №%d", g.CompanyID), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont(family, "", 12)
	pdf.MultiCell(0, 8, fmt.Sprintf("Участников: %d", g.Respondents), "", "L", false)
	pdf.MultiCell(0, 8, strings.TrimSpace(stripTags.Replace(g.Heading)), "", "L", false)
	pdf.Ln(4)

	if len(chart) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(chart))
		pdf.ImageOptions("chart", pdf.GetX(), pdf.GetY(), 180, 0, true, opts, 0, "")
		pdf.Ln(4)
	}

	for _, b := range g.Blocks {
		pdf.SetFont(family, "B", 12)
		pdf.MultiCell(0, 8, fmt.Sprintf("%s: %.2f", b.Name, b.Score), "", "L", false)

		pdf.SetFont(family, "", 11)
		for _, item := range b.Free {
			pdf.MultiCell(0, 6, "• "+item, "", "L", false)
		}
		for _, item := range b.Paid {
			pdf.MultiCell(0, 6, "₽ "+item, "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
