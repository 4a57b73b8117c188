package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dvor-map/internal/config"
	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/domain/repository"
	apperrors "github.com/dvor-map/internal/pkg/errors"
)

type client struct {
	httpClient   *http.Client
	baseURL      string
	readRetries  int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewStoreClient создает клиент удалённого хранилища домов и жалоб
func NewStoreClient(cfg *config.StoreConfig, logger *zap.Logger) repository.StoreRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		readRetries:  cfg.ReadRetries,
		retryBackoff: cfg.RetryBackoff,
		logger:       logger,
	}
}

// detailBody - тело ошибки хранилища: {"detail": "..."}
type detailBody struct {
	Detail string `json:"detail"`
}

// do выполняет один запрос. Сетевые сбои и не-2xx ответы приходят наружу
// как типизированные ошибки; detail из тела показывается пользователю
// без изменений.
func (c *client) do(ctx context.Context, method, path string, body io.Reader, contentType string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Store request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return apperrors.NewNetwork(fmt.Sprintf("store unreachable: %s %s", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		var detail detailBody
		_ = json.Unmarshal(raw, &detail)
		c.logger.Warn("Store rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("detail", detail.Detail))
		return apperrors.NewRejection(resp.StatusCode, detail.Detail)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode store response",
			zap.String("path", path),
			zap.Error(err))
		return apperrors.NewNetwork("failed to decode store response", err)
	}
	return nil
}

func (c *client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, body, "application/json", nil, out)
}

// withReadRetry повторяет чтение при временных сбоях (сеть, 502-504)
// с удвоением паузы. Записи этим помощником не пользуются.
func (c *client) withReadRetry(ctx context.Context, op string, fn func() error) error {
	backoff := c.retryBackoff
	var err error
	for attempt := 1; attempt <= c.readRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !apperrors.IsRetryable(err) || attempt == c.readRetries {
			return err
		}
		c.logger.Debug("Retrying store read",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return apperrors.NewNetwork("store read cancelled", ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

func (c *client) Warmup(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/buildings/", nil, "", nil, nil)
}

func (c *client) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	var wire []buildingWire
	err := c.withReadRetry(ctx, "list_buildings", func() error {
		wire = nil
		return c.do(ctx, http.MethodGet, "/buildings/", nil, "", nil, &wire)
	})
	if err != nil {
		return nil, err
	}

	buildings := make([]domain.Building, 0, len(wire))
	for _, w := range wire {
		buildings = append(buildings, w.toDomain())
	}
	return buildings, nil
}

func (c *client) CreateBuilding(ctx context.Context, input domain.CreateBuildingInput) (*domain.Building, error) {
	var wire buildingWire
	if err := c.doJSON(ctx, http.MethodPost, "/buildings/", input, &wire); err != nil {
		return nil, err
	}
	created := wire.toDomain()
	c.logger.Info("Building created", zap.Int64("building_id", created.ID))
	return &created, nil
}

func (c *client) UpdateBuildingPosition(ctx context.Context, id int64, lat, lng float64) (*domain.Building, error) {
	payload := map[string]float64{"lat": lat, "lng": lng}
	var wire buildingWire
	path := fmt.Sprintf("/buildings/%d/position", id)
	if err := c.doJSON(ctx, http.MethodPatch, path, payload, &wire); err != nil {
		return nil, err
	}
	updated := wire.toDomain()
	return &updated, nil
}

func (c *client) ConfirmPositive(ctx context.Context, buildingID int64) error {
	path := fmt.Sprintf("/buildings/%d/confirm-positive", buildingID)
	return c.do(ctx, http.MethodPost, path, nil, "", nil, nil)
}

func (c *client) ListReports(ctx context.Context, buildingID int64) ([]domain.Report, error) {
	var wire []reportWire
	path := fmt.Sprintf("/reports/buildings/%d/reports", buildingID)
	err := c.withReadRetry(ctx, "list_reports", func() error {
		wire = nil
		return c.do(ctx, http.MethodGet, path, nil, "", nil, &wire)
	})
	if err != nil {
		return nil, err
	}

	reports := make([]domain.Report, 0, len(wire))
	for _, w := range wire {
		reports = append(reports, w.toDomain())
	}
	return reports, nil
}

func (c *client) CreateReport(ctx context.Context, input domain.NewReportInput) (*domain.Report, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"building_id": strconv.FormatInt(input.BuildingID, 10),
		"category":    input.Category,
		"severity":    string(input.Severity),
		"periodicity": string(input.Periodicity),
		"text":        input.Text,
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	if input.Image != nil {
		part, err := form.CreateFormFile("image", input.Image.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to attach image: %w", err)
		}
		if _, err := part.Write(input.Image.Data); err != nil {
			return nil, fmt.Errorf("failed to write image: %w", err)
		}
	}

	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	var wire reportWire
	if err := c.do(ctx, http.MethodPost, "/reports/", &buf, form.FormDataContentType(), nil, &wire); err != nil {
		return nil, err
	}
	created := wire.toDomain()
	c.logger.Info("Report created",
		zap.Int64("report_id", created.ID),
		zap.Int64("building_id", created.BuildingID),
		zap.String("severity", string(created.Severity)))
	return &created, nil
}

func (c *client) ConfirmProblem(ctx context.Context, reportID int64) error {
	path := fmt.Sprintf("/reports/%d/confirm-problem", reportID)
	return c.do(ctx, http.MethodPost, path, nil, "", nil, nil)
}

func (c *client) ConfirmResolved(ctx context.Context, reportID int64) error {
	path := fmt.Sprintf("/reports/%d/confirm-resolved", reportID)
	return c.do(ctx, http.MethodPost, path, nil, "", nil, nil)
}

func (c *client) ListHelpRequests(ctx context.Context, buildingID *int64) ([]domain.HelpRequest, error) {
	path := "/help/"
	if buildingID != nil {
		path = fmt.Sprintf("/help/?building_id=%d", *buildingID)
	}

	var wire []helpWire
	err := c.withReadRetry(ctx, "list_help", func() error {
		wire = nil
		return c.do(ctx, http.MethodGet, path, nil, "", nil, &wire)
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.HelpRequest, 0, len(wire))
	for _, w := range wire {
		items = append(items, w.toDomain())
	}
	return items, nil
}

func (c *client) CreateHelpRequest(ctx context.Context, input domain.NewHelpRequestInput) (*domain.HelpRequest, error) {
	var wire helpWire
	if err := c.doJSON(ctx, http.MethodPost, "/help/", input, &wire); err != nil {
		return nil, err
	}
	created := wire.toDomain()
	return &created, nil
}

func (c *client) CloseHelpRequest(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/help/%d/close", id)
	return c.do(ctx, http.MethodPost, path, nil, "", nil, nil)
}

func (c *client) RespondToHelp(ctx context.Context, id int64, userHash string) error {
	path := fmt.Sprintf("/help/%d/respond", id)
	headers := map[string]string{"X-User-Hash": userHash}
	return c.do(ctx, http.MethodPost, path, nil, "", headers, nil)
}

func (c *client) HelpResponses(ctx context.Context, id int64) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	path := fmt.Sprintf("/help/%d/responses", id)
	err := c.withReadRetry(ctx, "help_responses", func() error {
		return c.do(ctx, http.MethodGet, path, nil, "", nil, &out)
	})
	if err != nil {
		return 0, err
	}
	return out.Count, nil
}
