package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"mealdiary/internal/meals"
	"mealdiary/internal/prefs"
	"mealdiary/internal/summary"
)

var (
	ErrInvalidFormat = errors.New("format must be pdf or csv")
	ErrInvalidRange  = errors.New("from and to must be YYYY-MM-DD dates with from <= to")
	ErrRangeTooLarge = errors.New("date range too large")
)

// Generator renders meal history exports.
type Generator struct {
	meals        *meals.Service
	prefs        *prefs.Service
	maxRangeDays int
}

// NewGenerator creates a new report generator.
func NewGenerator(mealsService *meals.Service, prefsService *prefs.Service, maxRangeDays int) *Generator {
	return &Generator{
		meals:        mealsService,
		prefs:        prefsService,
		maxRangeDays: maxRangeDays,
	}
}

// Generate renders the report and returns the bytes with their content type.
func (g *Generator) Generate(ctx context.Context, req ReportRequest) ([]byte, string, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, "", ErrInvalidFormat
	}

	from, err := time.ParseInLocation("2006-01-02", req.From, time.Local)
	if err != nil {
		return nil, "", ErrInvalidRange
	}
	to, err := time.ParseInLocation("2006-01-02", req.To, time.Local)
	if err != nil {
		return nil, "", ErrInvalidRange
	}
	if to.Before(from) {
		return nil, "", ErrInvalidRange
	}

	days := int(to.Sub(from).Hours()/24) + 1
	if days > g.maxRangeDays {
		return nil, "", fmt.Errorf("%w: %d days requested, limit is %d", ErrRangeTooLarge, days, g.maxRangeDays)
	}

	// "to" is inclusive, so the range ends at the following midnight.
	rangeMeals, err := g.meals.Range(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, "", err
	}

	preferences, err := g.prefs.Get(ctx)
	if err != nil {
		return nil, "", err
	}

	switch req.Format {
	case FormatCSV:
		data, err := generateCSV(rangeMeals)
		return data, "text/csv", err
	default:
		data, err := generatePDF(req, rangeMeals, preferences.CalorieGoal)
		return data, "application/pdf", err
	}
}

// generateCSV writes one row per meal, chronological order.
func generateCSV(rangeMeals []meals.MealDTO) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "time", "name", "category", "calories", "favorite", "description"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, m := range rangeMeals {
		row := []string{
			m.EatenAt.Format("2006-01-02"),
			m.EatenAt.Format("15:04"),
			m.Name,
			m.Category,
			strconv.Itoa(m.Calories),
			strconv.FormatBool(m.IsFavorite),
			m.Description,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// generatePDF renders a summary page plus a per-day table.
func generatePDF(req ReportRequest, rangeMeals []meals.MealDTO, goal int) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, "Meal Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", req.From, req.To))
	pdf.Ln(12)

	// Group meals by local calendar day, preserving chronological order.
	var dates []string
	byDate := map[string][]meals.MealDTO{}
	totalCalories := 0
	for _, m := range rangeMeals {
		date := m.EatenAt.Format("2006-01-02")
		if _, seen := byDate[date]; !seen {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], m)
		totalCalories += m.Calories
	}

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Meals logged: %d", len(rangeMeals)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total calories: %d", totalCalories))
	pdf.Ln(5)
	if len(dates) > 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Average per logged day: %d", totalCalories/len(dates)))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Daily calorie goal: %d", goal))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Days")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(25, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Meals", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Calories", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "% of goal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Status", "1", 1, "C", false, 0, "")

	for _, date := range dates {
		day := summary.Compute(byDate[date], goal)

		pdf.CellFormat(25, 6, date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(day.MealCount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, strconv.Itoa(day.TotalCalories), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, strconv.Itoa(day.Percent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, day.Status, "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}
