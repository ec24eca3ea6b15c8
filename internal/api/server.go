package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/cosmobobak/cbnf/internal/logger"
	"github.com/cosmobobak/cbnf/internal/report"
	"github.com/cosmobobak/cbnf/internal/version"
	"github.com/cosmobobak/cbnf/pkg/cbnf"
)

// DefaultMaxBodyBytes bounds uploads when Config.MaxBodyBytes is unset.
const DefaultMaxBodyBytes = 64 << 20

type Config struct {
	// MaxBodyBytes is the largest accepted request body.
	MaxBodyBytes int64
	Logger       logger.Logger
}

type Server struct {
	maxBody int64
	log     logger.Logger
	newID   func() string
}

func NewServer(cfg Config) *Server {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		maxBody: maxBody,
		log:     log.With("component", "api"),
		newID:   func() string { return "hdr_" + uuid.NewString() },
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/headers", s.handleParseHeader)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.String(),
	})
}

func (s *Server) handleParseHeader(c *echo.Context) error {
	validate := true
	if raw := c.Request().URL.Query().Get("validate"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return writeBadRequest(c, fmt.Sprintf("validate: %q is not a boolean", raw))
		}
		validate = v
	}

	body, err := readBody(c.Request().Body, s.maxBody)
	if errors.Is(err, errBodyTooLarge) {
		return writeError(c, http.StatusRequestEntityTooLarge, "request_too_large",
			fmt.Sprintf("body exceeds %d bytes", s.maxBody), "")
	}
	if err != nil {
		return writeBadRequest(c, "read body: "+err.Error())
	}

	f, err := cbnf.FromBytes(body, cbnf.Options{SkipValidation: !validate})
	if err != nil {
		s.log.Debug("rejected header", "kind", cbnf.KindOf(err).String(), "bytes", len(body))
		return writeParseError(c, err)
	}

	resp := HeaderResponse{
		ID:           s.newID(),
		Object:       "cbnf.header",
		Validated:    validate,
		Compressed:   f.Compressed(),
		PayloadBytes: len(f.Payload()),
		Header:       report.Summarize(f.Header),
	}
	s.log.Info("parsed header", "id", resp.ID, "name", resp.Header.Name, "layers", resp.Header.LayerCount)
	return c.JSON(http.StatusOK, resp)
}

var errBodyTooLarge = errors.New("body too large")

func readBody(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}
