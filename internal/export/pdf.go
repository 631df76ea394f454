package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/BrianLien09/schedule-app/internal/model"
)

// PDFContentType PDF 回應的 MIME
const PDFContentType = "application/pdf"

// PDFOptions 薪資報表設定
// FontPath 為可嵌入的 UTF-8 TrueType 字型；未設定時改用內建字型與英文欄名
type PDFOptions struct {
	FontPath    string
	Title       string
	GeneratedAt time.Time
}

var (
	pdfHeadersCJK   = []string{"序號", "日期", "時段", "休息(分)", "時數", "時薪", "薪資"}
	pdfHeadersLatin = []string{"No.", "Date", "Time", "Break", "Hours", "Rate", "Pay"}
	pdfColWidths    = []float64{14, 30, 36, 22, 24, 30, 34}
)

// SalaryPDF 產生薪資報表
func SalaryPDF(records []model.SalaryRecord, opts PDFOptions) ([]byte, error) {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("第 %d 筆薪資記錄: %w", i+1, err)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	family := "Arial"
	headers := pdfHeadersLatin
	title := "Salary Report"
	totalLabel := "Total"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		pdf.AddUTF8Font("cjk", "", opts.FontPath)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("載入字型失敗: %w", err)
		}
		family = "cjk"
		headers = pdfHeadersCJK
		title = "薪資報表"
		totalLabel = "總計"
		tr = func(s string) string { return s }
	}
	if opts.Title != "" && opts.FontPath != "" {
		title = opts.Title
	}

	pdf.AddPage()
	pdf.SetFont(family, "", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	if !opts.GeneratedAt.IsZero() {
		pdf.SetFont(family, "", 9)
		pdf.CellFormat(0, 6, opts.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont(family, "", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(pdfColWidths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	var totalPay, totalHours float64
	for i, r := range records {
		hours := r.WorkHours()
		pay := r.Pay()
		totalHours += hours
		totalPay += pay

		cells := []string{
			strconv.Itoa(i + 1),
			r.Date,
			r.StartTime + "-" + r.EndTime,
			strconv.Itoa(r.BreakMinutes),
			strconv.FormatFloat(hours, 'f', 2, 64),
			formatNumber(r.HourlyRate),
			formatNumber(pay),
		}
		for j, c := range cells {
			align := "R"
			if j == 1 || j == 2 {
				align = "C"
			}
			pdf.CellFormat(pdfColWidths[j], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont(family, "", 10)
	labelWidth := pdfColWidths[0] + pdfColWidths[1] + pdfColWidths[2] + pdfColWidths[3]
	pdf.CellFormat(labelWidth, 8, tr(totalLabel), "1", 0, "C", true, 0, "")
	pdf.CellFormat(pdfColWidths[4], 8, strconv.FormatFloat(totalHours, 'f', 2, 64), "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfColWidths[5], 8, "", "1", 0, "", true, 0, "")
	pdf.CellFormat(pdfColWidths[6], 8, formatNumber(totalPay), "1", 1, "R", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("輸出 PDF 失敗: %w", err)
	}
	return buf.Bytes(), nil
}

// SalaryPDFFilename 薪資報表_YYYY-MM-DD.pdf
func SalaryPDFFilename(now time.Time) string {
	return "薪資報表_" + now.Format("2006-01-02") + ".pdf"
}
