package server

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/metrics"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/report"
	"fjacquet/bill-analyzer/internal/views"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "transactions": s.cfg.Dataset.Ledger.Len()})
}

func (s *Server) provenance(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"provenance":  s.cfg.Dataset.Provenance(),
		"diagnostics": s.cfg.Dataset.Diagnostics,
	})
}

func (s *Server) viewNames(c *fiber.Ctx) error {
	return c.JSON(views.Names())
}

// filtered applies the from, to, category, min and max query parameters.
// A filter that selects nothing is an empty_filter failure.
func (s *Server) filtered(c *fiber.Ctx) (models.Ledger, error) {
	f, err := views.FilterParams{
		From:       c.Query("from"),
		To:         c.Query("to"),
		Categories: c.Query("category"),
		Min:        c.Query("min"),
		Max:        c.Query("max"),
	}.Filter()
	if err != nil {
		return models.Ledger{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	l := s.cfg.Dataset.Ledger
	if f.IsZero() {
		return l, nil
	}
	out := l.Filter(f)
	if out.IsEmpty() && !l.IsEmpty() {
		return models.Ledger{}, &metrics.QueryError{Kind: metrics.KindEmptyFilter, Message: "no transactions match the filter"}
	}
	return out, nil
}

func (s *Server) summary(c *fiber.Ctx) error {
	l, err := s.filtered(c)
	if err != nil {
		return err
	}
	v, err := views.Render(c.Params("view"), l, c.QueryInt("top", views.DefaultTop))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.JSON(v)
}

func (s *Server) transactions(c *fiber.Ctx) error {
	l, err := s.filtered(c)
	if err != nil {
		return err
	}
	txs := l.Transactions()
	if txs == nil {
		txs = []models.Transaction{}
	}
	return c.JSON(txs)
}

func (s *Server) insights(c *fiber.Ctx) error {
	l, err := s.filtered(c)
	if err != nil {
		return err
	}
	rep := s.cfg.Insights.Generate(l)
	out := fiber.Map{"report": rep, "synthetic": l.Provenance().Synthetic}
	if c.QueryBool("narrate") {
		text, err := s.cfg.Narrator.Narrate(c.UserContext(), rep, l.Provenance())
		if err != nil {
			s.logger.WithError(err).Warn("Narrative unavailable")
			return fiber.NewError(fiber.StatusBadGateway, "narrative unavailable: "+err.Error())
		}
		out["narrative"] = text
	}
	return c.JSON(out)
}

func (s *Server) categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"rules":   s.cfg.Categorizer.Categories(),
		"version": s.cfg.Categorizer.Version(),
		"ledger":  s.cfg.Dataset.Ledger.Categories(),
	})
}

func (s *Server) categoryMetrics(c *fiber.Ctx) error {
	q := metrics.CategoryQuery{Categories: views.SplitList(c.Query("category"))}
	var err error
	if q.Start, err = optionalDate(c, "from"); err != nil {
		return err
	}
	if q.End, err = optionalDate(c, "to"); err != nil {
		return err
	}
	v, err := metrics.CategoryMetrics(s.cfg.Dataset.Ledger, q).Get()
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (s *Server) compare(c *fiber.Ctx) error {
	q := metrics.PeriodQuery{Category: strings.TrimSpace(c.Query("category"))}
	var err error
	for _, p := range []struct {
		name string
		dst  *metrics.DateRange
	}{{"first", &q.First}, {"second", &q.Second}} {
		if p.dst.Start, err = requiredDate(c, p.name+"_from"); err != nil {
			return err
		}
		if p.dst.End, err = requiredDate(c, p.name+"_to"); err != nil {
			return err
		}
	}
	v, err := metrics.ComparePeriods(s.cfg.Dataset.Ledger, q).Get()
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (s *Server) predict(c *fiber.Ctx) error {
	q := metrics.PredictionQuery{
		Category: strings.TrimSpace(c.Query("category")),
		Horizon:  c.QueryInt("horizon", metrics.DefaultHorizon),
	}
	v, err := metrics.PredictCategory(s.cfg.Dataset.Ledger, q).Get()
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (s *Server) report(c *fiber.Ctx) error {
	kind, err := report.ParseKind(c.Params("kind"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	l, err := s.filtered(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case report.PDF:
		err = s.cfg.Reports.WritePDF(&buf, kind, l)
		c.Set(fiber.HeaderContentType, "application/pdf")
	default:
		err = s.cfg.Reports.Write(&buf, kind, l)
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	}
	if err != nil {
		return err
	}
	s.logger.Debug("Report served", logging.F(logging.FieldReportKind, string(kind)))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s_report.%s"`, kind, format))
	return c.Send(buf.Bytes())
}

type categorizeRequest struct {
	Descriptions []string `json:"descriptions"`
}

type categorizeResult struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Pattern     string `json:"pattern,omitempty"`
	Fallback    bool   `json:"fallback"`
}

func (s *Server) categorize(c *fiber.Ctx) error {
	var req categorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	out := make([]categorizeResult, 0, len(req.Descriptions))
	for _, d := range req.Descriptions {
		m := s.cfg.Categorizer.Explain(d)
		out = append(out, categorizeResult{Description: d, Category: m.Category, Pattern: m.Pattern, Fallback: m.Fallback})
	}
	return c.JSON(out)
}

func optionalDate(c *fiber.Ctx, name string) (t time.Time, err error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return t, nil
	}
	if t, err = dateutils.ParseDate(s); err != nil {
		return t, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s: %v", name, err))
	}
	return t, nil
}

func requiredDate(c *fiber.Ctx, name string) (time.Time, error) {
	if strings.TrimSpace(c.Query(name)) == "" {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, name+" is required")
	}
	return optionalDate(c, name)
}
