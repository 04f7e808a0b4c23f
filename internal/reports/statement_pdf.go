package reports

import (
	"bytes"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// StatementPDF renders the monthly statement as a downloadable PDF.
func (h *Handler) StatementPDF(c *fiber.Ctx) error {
	from, err := h.monthStart(c)
	if err != nil {
		return err
	}

	userID, _ := c.Locals("user_id").(string)
	st, err := buildStatement(c.UserContext(), h.Store, userID, from)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed statement")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 48)
	pdf.SetTextColor(235, 235, 235)
	pdf.Text(25, 140, "PENNYPET")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PennyPet Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+st.From+" to "+st.To)
	pdf.Ln(5)
	pdf.Cell(0, 6, "User: "+maskID(userID))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{46, 46, 46, 46}
	pdf.CellFormat(sumW[0], 10, "Income", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Expense", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Deposits", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[3], 10, "Net", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, formatAmount(st.Income), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, formatAmount(st.Expense), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, formatAmount(st.Deposit), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[3], 10, formatAmount(st.Net), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)

	colW := []float64{22, 26, 72, 40, 24}
	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colW[0], 8, "TYPE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[2], 8, "CATEGORY", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], 8, "AMOUNT", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colW[4], 8, "ID", "1", 1, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	writeHeader()

	pdf.SetTextColor(30, 30, 30)

	maxRows := 200
	for i, it := range st.Items {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "truncated: too many rows", "1", 1, "C", false, 0, "")
			break
		}

		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeHeader()
		}

		amount := formatAmount(it.Amount)
		if it.Type != "income" {
			amount = "-" + amount
		}

		pdf.CellFormat(colW[0], 8, strings.ToUpper(it.Type), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, it.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, trimTo(it.Category, 60), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, amount, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 8, shortID(it.ID), "1", 1, "C", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by PennyPet", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf build failed")
	}

	filename := "pennypet-statement-" + st.Month + ".pdf"
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func maskID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "..." + id[len(id)-4:]
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "_"
}
