// Package api HTTP-клиент REST API Skyline Trips.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// DefaultTimeout таймаут одного запроса, если он не задан явно.
const DefaultTimeout = 15 * time.Second

// Error ответ сервера с кодом вне 2xx.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsUnauthorized сообщает, что сервер отклонил токен.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client вызывает эндпоинты API от имени владельца токена.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient создаёт клиент для сервера baseURL, например http://localhost:8080.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken задаёт токен для заголовка Authorization.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token текущий токен.
func (c *Client) Token() string {
	return c.token
}

// Image файл картинки для формы отпуска.
type Image struct {
	Name string
	Data []byte
}

// ListParams параметры запроса списка. Нулевые значения не передаются.
type ListParams struct {
	Filter   models.Filter
	Page     int
	PageSize int
}

// Register регистрирует пользователя и возвращает токен.
func (c *Client) Register(ctx context.Context, in models.RegisterInput) (string, error) {
	var token string
	err := c.doJSON(ctx, http.MethodPost, "/api/register", in, &token)
	return token, err
}

// Login возвращает токен по email и паролю.
func (c *Client) Login(ctx context.Context, in models.LoginInput) (string, error) {
	var token string
	err := c.doJSON(ctx, http.MethodPost, "/api/login", in, &token)
	return token, err
}

// ListVacations возвращает страницу отпусков.
func (c *Client) ListVacations(ctx context.Context, p ListParams) (*models.VacationPage, error) {
	q := url.Values{}
	if p.Filter != "" {
		q.Set("filter", string(p.Filter))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	path := "/api/vacations"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var page models.VacationPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetVacation возвращает отпуск по id.
func (c *Client) GetVacation(ctx context.Context, id string) (*models.VacationView, error) {
	var v models.VacationView
	if err := c.doJSON(ctx, http.MethodGet, "/api/vacations/"+url.PathEscape(id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Like добавляет лайк и возвращает подтверждённое сервером состояние.
func (c *Client) Like(ctx context.Context, id string) (*models.VacationView, error) {
	return c.likeRequest(ctx, http.MethodPost, id)
}

// Unlike убирает лайк.
func (c *Client) Unlike(ctx context.Context, id string) (*models.VacationView, error) {
	return c.likeRequest(ctx, http.MethodDelete, id)
}

func (c *Client) likeRequest(ctx context.Context, method, id string) (*models.VacationView, error) {
	var v models.VacationView
	if err := c.doJSON(ctx, method, "/api/vacations/"+url.PathEscape(id)+"/like", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVacation создаёт отпуск. Картинка обязательна.
func (c *Client) CreateVacation(ctx context.Context, in models.VacationInput, img *Image) (*models.VacationView, error) {
	return c.sendForm(ctx, http.MethodPost, "/api/vacations", in, img)
}

// UpdateVacation изменяет отпуск; img может быть nil.
func (c *Client) UpdateVacation(ctx context.Context, id string, in models.VacationInput, img *Image) (*models.VacationView, error) {
	return c.sendForm(ctx, http.MethodPatch, "/api/vacations/"+url.PathEscape(id), in, img)
}

// DeleteVacation удаляет отпуск.
func (c *Client) DeleteVacation(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/vacations/"+url.PathEscape(id), nil, nil)
}

// Report отчёт по лайкам.
func (c *Client) Report(ctx context.Context) ([]models.LikesReportRow, error) {
	var rows []models.LikesReportRow
	if err := c.doJSON(ctx, http.MethodGet, "/api/vacations/report/json", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReportCSV отчёт по лайкам в виде CSV-файла.
func (c *Client) ReportCSV(ctx context.Context) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/vacations/report/csv", nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Client) sendForm(ctx context.Context, method, path string, in models.VacationInput, img *Image) (*models.VacationView, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"destination", in.Destination},
		{"description", in.Description},
		{"startDate", in.StartDate},
		{"endDate", in.EndDate},
	}
	if in.Price != nil {
		fields = append(fields, [2]string{"price", strconv.FormatFloat(*in.Price, 'f', -1, 64)})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if img != nil {
		fw, err := mw.CreateFormFile("image", img.Name)
		if err != nil {
			return nil, err
		}
		if _, err = fw.Write(img.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, method, path, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var v models.VacationView
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
		reader = &buf
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, reader, contentType)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do выполняет запрос и превращает ответ вне 2xx в *Error.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return nil, apiErr
}
