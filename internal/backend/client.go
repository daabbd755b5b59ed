package backend

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/metrics"
)

// DefaultUserAgent is sent with every provider request.
const DefaultUserAgent = "eo-search/1.0"

// RESTOptions configure a provider HTTP client.
type RESTOptions struct {
	Provider  imagery.ProviderID
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
}

// NewRESTClient creates the resty client a provider adapter talks through.
// Every response and transport error is recorded in the upstream metrics.
func NewRESTClient(opts RESTOptions) *resty.Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("provider", string(opts.Provider)))

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("User-Agent", ua).
		SetLogger(restyLogger{logger: logger})
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	provider := string(opts.Provider)
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		metrics.ObserveUpstream(provider, resp.StatusCode(), resp.Time().Seconds())
		logger.Debug("provider response",
			slog.String("method", resp.Request.Method),
			slog.String("url", resp.Request.URL),
			slog.Int("status", resp.StatusCode()),
			slog.Duration("duration", resp.Time()),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		metrics.ObserveUpstream(provider, 0, time.Since(req.Time).Seconds())
		logger.Error("provider request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL),
			slog.String("error", err.Error()),
		)
	})

	return client
}

// Body returns the payload of a successful response, or a classified error.
func Body(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, TransportError(err)
	}
	if !resp.IsSuccess() {
		return nil, StatusError(resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

// DecodeJSON unmarshals a provider payload, wrapping failures as ErrMalformedResponse.
func DecodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return Malformed(fmt.Errorf("decode JSON: %w", err))
	}
	return nil
}

// restyLogger routes resty's internal log lines to slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
