package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBody límite de lectura de respuestas JSON; los PDF usan maxReportBody.
const (
	maxBody       = 4 << 20
	maxReportBody = 32 << 20
)

// TokenSource entrega el token vigente para las peticiones autenticadas.
// La implementación aplica la verificación pasiva de expiración.
type TokenSource interface {
	Token() (string, error)
}

// Client cliente HTTP del backend de la tienda. Las rutas son relativas a baseURL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger
}

// NewClient construye el cliente. baseURL debe terminar en "/".
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("rest: base URL inválida: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

// UseTokens asigna la fuente de tokens. Se llama una vez al cablear la
// aplicación, después de construir el gestor de sesión.
func (c *Client) UseTokens(ts TokenSource) { c.tokens = ts }

// ── Petición ──────────────────────────────────────────────────────────────────

type request struct {
	method         string
	path           string
	query          url.Values
	body           any
	anonymous      bool   // sin Authorization (auth/login)
	bearer         string // token explícito (auth/profile durante el login)
	idempotencyKey string
	accept         string
	limit          int64
}

// response cuerpo ya leído de una respuesta 2xx.
type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) do(ctx context.Context, r request) (*response, error) {
	target, err := c.baseURL.Parse(strings.TrimPrefix(r.path, "/"))
	if err != nil {
		return nil, fmt.Errorf("rest: ruta %q: %w", r.path, err)
	}
	if len(r.query) > 0 {
		target.RawQuery = r.query.Encode()
	}

	var payload io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("rest: serializar %s %s: %w", r.method, r.path, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("rest: crear request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	accept := r.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if r.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", r.idempotencyKey)
	}

	if !r.anonymous {
		token := r.bearer
		if token == "" {
			if c.tokens == nil {
				return nil, fmt.Errorf("rest: %s %s: fuente de token no configurada", r.method, r.path)
			}
			if token, err = c.tokens.Token(); err != nil {
				return nil, fmt.Errorf("rest: %s %s: %w", r.method, r.path, err)
			}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("rest: %s %s: timeout o cancelación: %w", r.method, r.path, ctx.Err())
		}
		return nil, fmt.Errorf("rest: %s %s: llamada HTTP fallida: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	limit := r.limit
	if limit == 0 {
		limit = maxBody
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("rest: %s %s: leer respuesta: %w", r.method, r.path, err)
	}

	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, raw)
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: raw}, nil
}

// doJSON ejecuta la petición y decodifica el cuerpo en out (si no es nil).
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("rest: %s %s: decodificar respuesta: %w", r.method, r.path, err)
	}
	return nil
}
