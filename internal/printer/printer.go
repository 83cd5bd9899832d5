package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"attendance-tracker/internal/calendar"
	"attendance-tracker/internal/models"

	"github.com/go-pdf/fpdf"
)

// FileName имя файла для печати
const FileName = "attendance.pdf"

// Printer превращает снимок месяца в документ
type Printer interface {
	Print(w io.Writer, view calendar.MonthView, title string) error
}

// PDFPrinter печатает месяц на одну страницу A4
type PDFPrinter struct {
	margin    float64
	topMargin float64
}

func NewPDFPrinter() *PDFPrinter {
	return &PDFPrinter{margin: 10, topMargin: 14}
}

// Legend строка легенды внизу страницы
func Legend() string {
	parts := make([]string, 0, len(models.AllStatuses()))
	for _, s := range models.AllStatuses() {
		info, _ := s.Info()
		if info.Hours > 0 {
			parts = append(parts, fmt.Sprintf("%s=%dh", info.Short, info.Hours))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", info.Short, info.Label))
		}
	}
	return "Legend: " + strings.Join(parts, ", ")
}

func (p *PDFPrinter) Print(w io.Writer, view calendar.MonthView, title string) error {
	if title == "" {
		title = view.Title
	}
	if title == "" {
		title = "Attendance"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(p.margin, p.margin, p.margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()

	// Заголовок (месяц/год)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(p.margin, p.margin, title)

	// Сетка месяца
	gridWidth := pageWidth - 2*p.margin
	cellWidth := gridWidth / 7
	headerHeight := 8.0
	cellHeight := 24.0
	y := p.margin + p.topMargin

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(241, 245, 249)
	pdf.SetDrawColor(203, 213, 225)
	for i, name := range calendar.Weekdays {
		pdf.SetXY(p.margin+float64(i)*cellWidth, y)
		pdf.CellFormat(cellWidth, headerHeight, name, "1", 0, "C", true, 0, "")
	}
	y += headerHeight

	for _, week := range view.Weeks {
		for i, cell := range week {
			x := p.margin + float64(i)*cellWidth
			p.drawCell(pdf, cell, x, y, cellWidth, cellHeight)
		}
		y += cellHeight
	}

	// Легенда внизу
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(p.margin, pageHeight-8, Legend())

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return pdf.Output(w)
}

func (p *PDFPrinter) drawCell(pdf *fpdf.Fpdf, cell calendar.Cell, x, y, w, h float64) {
	pdf.SetDrawColor(203, 213, 225)
	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(x, y, w, h, "FD")

	if !cell.InMonth {
		pdf.SetTextColor(148, 163, 184)
	} else {
		pdf.SetTextColor(15, 23, 42)
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(x, y+1)
	pdf.CellFormat(w-2, 5, strconv.Itoa(cell.Date.Day()), "", 0, "R", false, 0, "")

	if cell.Record == nil {
		return
	}
	info, ok := cell.Record.Status.Info()
	if !ok {
		return
	}
	r, g, b := hexToRGB(info.Color)
	pdf.SetFillColor(r, g, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(x+1, y+h-9)
	pdf.CellFormat(w-2, 7, calendar.Label(cell.Record.Status), "", 0, "C", true, 0, "")
}

// hexToRGB разбирает цвет вида #16a34a
func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
