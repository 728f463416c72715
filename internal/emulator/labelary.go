package emulator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Print parameters sent to the rendering service: 8 dots/mm, a 4x6 inch label,
// first label of the document.
const (
	LabelDensity = "8dpmm"
	LabelWidth   = 4.0
	LabelHeight  = 6.0
	LabelIndex   = 0
)

// DefaultLabelaryURL is the public Labelary API.
const DefaultLabelaryURL = "http://api.labelary.com"

// LabelaryClient converts ZPL into PDF through the Labelary HTTP API.
type LabelaryClient struct {
	BaseURL string
	Timeout time.Duration

	client *fiber.Client
}

// NewLabelaryClient returns a client posting to baseURL. A zero timeout waits
// for the transport.
func NewLabelaryClient(baseURL string, timeout time.Duration) *LabelaryClient {
	if baseURL == "" {
		baseURL = DefaultLabelaryURL
	}
	return &LabelaryClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		client:  &fiber.Client{UserAgent: "zplemu"},
	}
}

// Endpoint returns the render URL for the fixed label parameters.
func (c *LabelaryClient) Endpoint() string {
	return fmt.Sprintf("%s/v1/printers/%s/labels/%sx%s/%d/",
		c.BaseURL,
		LabelDensity,
		strconv.FormatFloat(LabelWidth, 'f', -1, 64),
		strconv.FormatFloat(LabelHeight, 'f', -1, 64),
		LabelIndex,
	)
}

// Render posts payload once and returns the PDF body on HTTP 200.
func (c *LabelaryClient) Render(payload []byte) ([]byte, error) {
	agent := c.client.Post(c.Endpoint()).
		ContentType(fiber.MIMEApplicationForm).
		Set(fiber.HeaderAccept, "application/pdf").
		Body(payload)
	if c.Timeout > 0 {
		agent = agent.Timeout(c.Timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, &RenderServiceError{Err: errors.Join(errs...)}
	}
	if code != fiber.StatusOK {
		return nil, &RenderServiceError{StatusCode: code, Err: errors.New(truncate(body, 256))}
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
