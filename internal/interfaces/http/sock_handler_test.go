package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/socks-api/internal/application/dto"
	"github.com/jhoicas/socks-api/internal/application/inventory"
	"github.com/jhoicas/socks-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/socks-api/internal/interfaces/http"
	"github.com/jhoicas/socks-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildSockApp arma la API completa sobre el store en memoria.
func buildSockApp(t *testing.T, jwtSecret string) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	uc := inventory.NewSockUseCase(store, store, nil)
	app := apphttp.NewApp(apphttp.AppConfig{Name: "socks-api-test", Logger: logger.Nop()})
	apphttp.Router(app, apphttp.RouterDeps{
		SockUC:     uc,
		Logger:     logger.Nop(),
		CSVCharset: "utf-8",
		JWTSecret:  jwtSecret,
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, target, contentType string, body io.Reader, headers ...string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func sendJSON(t *testing.T, app *fiber.App, method, target, body string, headers ...string) (int, []byte) {
	t.Helper()
	return send(t, app, method, target, fiber.MIMEApplicationJSON, strings.NewReader(body), headers...)
}

func get(t *testing.T, app *fiber.App, target string) (int, []byte) {
	t.Helper()
	return send(t, app, http.MethodGet, target, "", nil)
}

// multipartCSV arma un cuerpo multipart con el campo file y, opcionalmente, charset.
func multipartCSV(t *testing.T, content []byte, charset string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "sk.csv")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	if charset != "" {
		require.NoError(t, w.WriteField("charset", charset))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Income / Outcome
// ──────────────────────────────────────────────────────────────────────────────

func TestIncome_200(t *testing.T) {
	app := buildSockApp(t, "")

	status, raw := sendJSON(t, app, http.MethodPost, "/api/socks/income", `{"color":"azul","cottonPart":80,"quantity":3}`)
	assert.Equal(t, http.StatusOK, status)

	var body dto.MessageResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.NotEmpty(t, body.Message)
}

func TestIncome_400(t *testing.T) {
	app := buildSockApp(t, "")

	tests := []struct {
		name, body, code string
	}{
		{"algodón fuera de rango", `{"color":"azul","cottonPart":101,"quantity":3}`, "VALIDATION"},
		{"cantidad negativa", `{"color":"azul","cottonPart":80,"quantity":-1}`, "VALIDATION"},
		{"cuerpo null", `null`, "VALIDATION"},
		{"cuerpo vacío", ``, "VALIDATION"},
		{"json malformado", `{"color":`, "INVALID_BODY"},
		{"cantidad mayor al máximo", `{"color":"azul","cottonPart":80,"quantity":2147483648}`, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := sendJSON(t, app, http.MethodPost, "/api/socks/income", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.code, errorCode(t, raw))
		})
	}
}

func TestIncome_SumaSuperaMaximo_400(t *testing.T) {
	app := buildSockApp(t, "")
	status, _ := sendJSON(t, app, http.MethodPost, "/api/socks/income", `{"color":"azul","cottonPart":80,"quantity":2147483647}`)
	require.Equal(t, http.StatusOK, status)

	status, raw := sendJSON(t, app, http.MethodPost, "/api/socks/income", `{"color":"azul","cottonPart":80,"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))

	_, raw = get(t, app, "/api/socks?color=azul")
	assert.Equal(t, "2147483647", string(raw))
}

func TestOutcome_Estados(t *testing.T) {
	app := buildSockApp(t, "")
	status, _ := sendJSON(t, app, http.MethodPost, "/api/socks/income", `{"color":"azul","cottonPart":80,"quantity":3}`)
	require.Equal(t, http.StatusOK, status)

	status, raw := sendJSON(t, app, http.MethodPost, "/api/socks/outcome", `{"color":"azul","cottonPart":80,"quantity":5}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, raw))

	status, raw = sendJSON(t, app, http.MethodPost, "/api/socks/outcome", `{"color":"rojo","cottonPart":80,"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))

	status, _ = sendJSON(t, app, http.MethodPost, "/api/socks/outcome", `{"color":"azul","cottonPart":80,"quantity":2}`)
	assert.Equal(t, http.StatusOK, status)

	_, raw = get(t, app, "/api/socks?color=azul")
	assert.Equal(t, "1", string(raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Count
// ──────────────────────────────────────────────────────────────────────────────

func TestCount(t *testing.T) {
	app := buildSockApp(t, "")
	for _, body := range []string{
		`{"color":"azul","cottonPart":20,"quantity":5}`,
		`{"color":"azul","cottonPart":70,"quantity":7}`,
		`{"color":"rojo","cottonPart":70,"quantity":11}`,
	} {
		status, _ := sendJSON(t, app, http.MethodPost, "/api/socks/income", body)
		require.Equal(t, http.StatusOK, status)
	}

	tests := []struct {
		query, want string
	}{
		{"", "23"},
		{"?color=azul", "12"},
		{"?color=", "23"},
		{"?comparison=moreThan&cottonPart=20", "18"},
		{"?color=azul&comparison=lessThan&cottonPart=70", "5"},
		{"?comparison=equal&cottonPart=70", "18"},
		{"?comparison=between&cottonPart=70", "0"},
		{"?cottonPart=70", "0"},
		{"?color=verde", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			status, raw := get(t, app, "/api/socks"+tt.query)
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.want, string(raw))
		})
	}
}

func TestCount_CottonPartNoNumerico(t *testing.T) {
	app := buildSockApp(t, "")

	status, raw := get(t, app, "/api/socks?comparison=equal&cottonPart=abc")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUERY", errorCode(t, raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Batch
// ──────────────────────────────────────────────────────────────────────────────

func TestUploadBatch_200(t *testing.T) {
	app := buildSockApp(t, "")

	body, ct := multipartCSV(t, []byte("color,cottonPart,quantity\nazul,25,100\nverde,50,10\n"), "")
	status, raw := send(t, app, http.MethodPost, "/api/socks/batch", ct, body)
	require.Equal(t, http.StatusOK, status, string(raw))

	var res dto.BatchResponse
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.Equal(t, 2, res.Lines)

	_, raw = get(t, app, "/api/socks?color=azul")
	assert.Equal(t, "100", string(raw))
}

func TestUploadBatch_Windows1251(t *testing.T) {
	app := buildSockApp(t, "")

	// "синий,50,1" en cp1251
	content := append([]byte("color,cottonPart,quantity\n"), 0xF1, 0xE8, 0xED, 0xE8, 0xE9)
	content = append(content, []byte(",50,1\n")...)
	body, ct := multipartCSV(t, content, "windows-1251")
	status, raw := send(t, app, http.MethodPost, "/api/socks/batch", ct, body)
	require.Equal(t, http.StatusOK, status, string(raw))

	_, raw = get(t, app, "/api/socks?color="+url.QueryEscape("синий"))
	assert.Equal(t, "1", string(raw))
}

func TestUploadBatch_Errores(t *testing.T) {
	app := buildSockApp(t, "")

	body, ct := multipartCSV(t, []byte("color,cottonPart,quantity\nazul,xx,1\n"), "")
	status, raw := send(t, app, http.MethodPost, "/api/socks/batch", ct, body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MALFORMED_CSV", errorCode(t, raw))

	body, ct = multipartCSV(t, []byte("color,cottonPart,quantity\nazul,50,-1\n"), "")
	status, raw = send(t, app, http.MethodPost, "/api/socks/batch", ct, body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))

	body, ct = multipartCSV(t, []byte("color,cottonPart,quantity\n"), "ebcdic")
	status, raw = send(t, app, http.MethodPost, "/api/socks/batch", ct, body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "UNSUPPORTED_CHARSET", errorCode(t, raw))

	status, raw = sendJSON(t, app, http.MethodPost, "/api/socks/batch", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_FILE", errorCode(t, raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / GetByID / Filter
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateYGetByID(t *testing.T) {
	app := buildSockApp(t, "")
	status, _ := sendJSON(t, app, http.MethodPost, "/api/socks/income", `{"color":"azul","cottonPart":80,"quantity":3}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = sendJSON(t, app, http.MethodPut, "/api/socks/1", `{"color":"celeste","cottonPart":60,"quantity":9}`)
	assert.Equal(t, http.StatusOK, status)

	status, raw := get(t, app, "/api/socks/1")
	require.Equal(t, http.StatusOK, status)
	var sock dto.SockResponse
	require.NoError(t, json.Unmarshal(raw, &sock))
	assert.Equal(t, dto.SockResponse{ID: 1, Color: "celeste", CottonPart: 60, Quantity: 9}, sock)

	status, raw = sendJSON(t, app, http.MethodPut, "/api/socks/99", `{"color":"azul","cottonPart":60,"quantity":9}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))

	status, raw = sendJSON(t, app, http.MethodPut, "/api/socks/abc", `{"color":"azul","cottonPart":60,"quantity":9}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ID", errorCode(t, raw))

	status, _ = get(t, app, "/api/socks/99")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFilter(t *testing.T) {
	app := buildSockApp(t, "")
	for _, body := range []string{
		`{"color":"verde","cottonPart":30,"quantity":1}`,
		`{"color":"azul","cottonPart":70,"quantity":2}`,
		`{"color":"rojo","cottonPart":10,"quantity":3}`,
	} {
		status, _ := sendJSON(t, app, http.MethodPost, "/api/socks/income", body)
		require.Equal(t, http.StatusOK, status)
	}

	status, raw := get(t, app, "/api/socks/filter?minCottonPart=10&maxCottonPart=70")
	require.Equal(t, http.StatusOK, status)
	var list []dto.SockResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 3)
	assert.Equal(t, "azul", list[0].Color)

	status, raw = get(t, app, "/api/socks/filter?minCottonPart=10&maxCottonPart=70&sortBy=cottonPart")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, "rojo", list[0].Color)

	status, raw = get(t, app, "/api/socks/filter?minCottonPart=80&maxCottonPart=20")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(raw))

	status, raw = get(t, app, "/api/socks/filter?maxCottonPart=20")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUERY", errorCode(t, raw))
}

func TestRutaInexistente_404JSON(t *testing.T) {
	app := buildSockApp(t, "")

	status, raw := get(t, app, "/api/nada")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth en rutas de escritura
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ConSecret_ProtegeEscrituras(t *testing.T) {
	app := buildSockApp(t, testJWTSecret)
	payload := `{"color":"azul","cottonPart":80,"quantity":3}`

	status, _ := sendJSON(t, app, http.MethodPost, "/api/socks/income", payload)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = sendJSON(t, app, http.MethodPost, "/api/socks/income", payload, fiber.HeaderAuthorization, bearer(t, testOperator))
	assert.Equal(t, http.StatusOK, status)

	status, raw := get(t, app, "/api/socks")
	assert.Equal(t, http.StatusOK, status, "las lecturas no requieren token")
	assert.Equal(t, "3", string(raw))
}
