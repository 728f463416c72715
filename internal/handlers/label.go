package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"zplemu/internal/emulator"
	"zplemu/internal/journal"
	u "zplemu/internal/utils"
)

const (
	defaultRecentLimit = 20
	journalTimeout     = 2 * time.Second
)

// Printer runs the print pipeline for one payload.
type Printer interface {
	Handle(payload []byte) (string, error)
}

// LabelService bundles configuration and dependencies for label printing.
type LabelService struct {
	Config  *u.Config
	Printer Printer
	Journal journal.Recorder
}

// NewLabelService creates a LabelService. A nil recorder disables the journal.
func NewLabelService(cfg u.Config, printer Printer, rec journal.Recorder) *LabelService {
	if rec == nil {
		rec = journal.Nop{}
	}
	return &LabelService{
		Config:  &cfg,
		Printer: printer,
		Journal: rec,
	}
}

// NewEmulator builds the print pipeline described by cfg.
func NewEmulator(cfg u.Config) *emulator.Emulator {
	return emulator.New(
		emulator.NewResolver(emulator.FileSource(cfg.Emulator.OverrideFile)),
		emulator.NewLabelaryClient(cfg.Render.BaseURL, time.Duration(cfg.Render.TimeoutSecs)*time.Second),
		emulator.NewFileWriter(),
	)
}

// HandlePrint renders the request body and stores it as a PDF. Any failure
// answers 500 without detail; the cause is only logged.
func (svc *LabelService) HandlePrint(c *fiber.Ctx) error {
	// fasthttp reuses the body buffer after the handler returns.
	payload := append([]byte(nil), c.Body()...)
	requestID := requestIDFrom(c)

	path, err := svc.Printer.Handle(payload)
	if err != nil {
		logPrintFailure(err, requestID)
		return fiber.ErrInternalServerError
	}

	u.Info("Label printed", "path", path, "bytes", len(payload), "request_id", requestID)

	svc.record(c, journal.Entry{
		Path:         path,
		PayloadBytes: len(payload),
		RequestID:    requestID,
		PrintedAt:    time.Now().UTC(),
	})
	return c.SendStatus(fiber.StatusOK)
}

// HandleRecent lists the most recently printed labels.
func (svc *LabelService) HandleRecent(c *fiber.Ctx) error {
	limit := min(defaultRecentLimit, svc.Config.Journal.Size)
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > svc.Config.Journal.Size {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid limit: must be between 1 and "+strconv.Itoa(svc.Config.Journal.Size))
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Context(), journalTimeout)
	defer cancel()

	entries, err := svc.Journal.Recent(ctx, limit)
	if err != nil {
		u.Error("Journal read failed", "error", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "Journal unavailable")
	}
	return c.JSON(fiber.Map{"prints": entries})
}

func (svc *LabelService) record(c *fiber.Ctx, e journal.Entry) {
	ctx, cancel := context.WithTimeout(c.Context(), journalTimeout)
	defer cancel()

	if err := svc.Journal.Record(ctx, e); err != nil {
		u.Warn("Journal write failed", "path", e.Path, "error", err)
	}
}

func logPrintFailure(err error, requestID string) {
	var (
		cfgErr    *emulator.ConfigLoadError
		renderErr *emulator.RenderServiceError
		writeErr  *emulator.WriteError
	)
	switch {
	case errors.Is(err, emulator.ErrEmptyPayload):
		u.Warn("Print rejected: empty payload", "request_id", requestID)
	case errors.As(err, &cfgErr):
		u.Error("Print failed: emulator config", "file", cfgErr.Path, "error", cfgErr.Err, "request_id", requestID)
	case errors.As(err, &renderErr):
		u.Error("Print failed: render service", "status", renderErr.StatusCode, "error", renderErr.Err, "request_id", requestID)
	case errors.As(err, &writeErr):
		u.Error("Print failed: write", "path", writeErr.Path, "error", writeErr.Err, "request_id", requestID)
	default:
		u.Error("Print failed", "error", err, "request_id", requestID)
	}
}

func requestIDFrom(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return id
	}
	if id := c.Get(fiber.HeaderXRequestID); id != "" {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
