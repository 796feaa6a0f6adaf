// Package report реализует HTTP-обработчики отчёта по лайкам в JSON и CSV.
package report

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/skyline-trips/internal/http/response"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// CSVFileName имя файла во вложении.
const CSVFileName = "vacations-report.csv"

// Service описывает интерфейс бизнес-логики отчёта.
type Service interface {
	Report(ctx context.Context) ([]models.LikesReportRow, error)
	ReportCSV(ctx context.Context) ([]byte, error)
}

// JSONHandler отдаёт отчёт массивом {destination, likes}.
type JSONHandler struct {
	log     *slog.Logger
	service Service
}

// NewJSON создает JSONHandler.
func NewJSON(log *slog.Logger, service Service) *JSONHandler {
	return &JSONHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отчёт по лайкам (JSON)
// @Tags Reports
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.LikesReportRow
// @Failure 403 {object} response.ErrorResponse "Нужна роль администратора"
// @Router /vacations/report/json [get]
func (h *JSONHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vacation.report.json"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rows, err := h.service.Report(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	render.JSON(w, r, rows)
}

// CSVHandler отдаёт отчёт CSV-файлом.
type CSVHandler struct {
	log     *slog.Logger
	service Service
}

// NewCSV создает CSVHandler.
func NewCSV(log *slog.Logger, service Service) *CSVHandler {
	return &CSVHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отчёт по лайкам (CSV)
// @Description Файл с BOM, заголовок destination,likes.
// @Tags Reports
// @Produce  text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 403 {object} response.ErrorResponse "Нужна роль администратора"
// @Router /vacations/report/csv [get]
func (h *CSVHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vacation.report.csv"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := h.service.ReportCSV(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+CSVFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error("failed to write csv", sl.Err(err))
	}
}
