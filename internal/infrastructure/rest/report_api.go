package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportAPI)(nil)

// ReportAPI adaptador de reportes/* (respuestas PDF).
type ReportAPI struct {
	c *Client
}

// NewReportAPI construye el adaptador.
func NewReportAPI(c *Client) *ReportAPI { return &ReportAPI{c: c} }

// Income GET reportes/ingresos?fechaInicio&fechaFinal&detallado.
func (a *ReportAPI) Income(ctx context.Context, from, to time.Time, detailed bool) ([]byte, error) {
	q := dateRange(from, to)
	q.Set("detallado", strconv.FormatBool(detailed))
	return a.pdf(ctx, "reportes/ingresos", q)
}

// PaymentMethods GET reportes/metodos-pago?fechaInicio&fechaFinal.
func (a *ReportAPI) PaymentMethods(ctx context.Context, from, to time.Time) ([]byte, error) {
	return a.pdf(ctx, "reportes/metodos-pago", dateRange(from, to))
}

func (a *ReportAPI) pdf(ctx context.Context, path string, q url.Values) ([]byte, error) {
	resp, err := a.c.do(ctx, request{
		method: http.MethodGet,
		path:   path,
		query:  q,
		accept: "application/pdf",
		limit:  maxReportBody,
	})
	if err != nil {
		return nil, fmt.Errorf("reportes: %s: %w", path, err)
	}
	return resp.body, nil
}

func dateRange(from, to time.Time) url.Values {
	q := url.Values{}
	q.Set("fechaInicio", from.Format(entity.SaleDateLayout))
	q.Set("fechaFinal", to.Format(entity.SaleDateLayout))
	return q
}
