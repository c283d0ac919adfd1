package headhunter

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiURL    = "https://api.hh.ru"
	userAgent = "spigell/skills-analyzer (spigelly@gmail.com)"
	// Max value for search per page.
	perPage = "100"

	// Source is stamped on every record produced from hh.ru vacancies.
	Source = "hh.ru"
	// Country is the country code assigned to hh.ru vacancies.
	Country = "RU"
)

type Client struct {
	token      string
	logger     *zap.Logger
	limiter    *rate.Limiter
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	UserAgent         string  `mapstructure:"user-agent"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
}

// New builds a client. The token is optional: vacancy search is public.
func New(logger *zap.Logger, token string, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = userAgent
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		token:   token,
		logger:  logger,
		limiter: rate.NewLimiter(limit, 1),
		APIURL:  apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: ua,
	}
}
