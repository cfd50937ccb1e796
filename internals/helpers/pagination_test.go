package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseQuery(t *testing.T, query string) Params {
	t.Helper()
	var got Params
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		got = ParseFiber(c)
		return c.SendStatus(fiber.StatusOK)
	})
	req := httptest.NewRequest("GET", "/x"+query, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return got
}

func TestParseFiberDefaults(t *testing.T) {
	p := parseQuery(t, "")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
}

func TestParseFiberBounds(t *testing.T) {
	p := parseQuery(t, "?page=3&limit=25")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.PerPage)
	assert.Equal(t, 50, p.Offset())

	p = parseQuery(t, "?page=-1&limit=9999")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)

	// per_page sebagai alias limit
	p = parseQuery(t, "?per_page=10")
	assert.Equal(t, 10, p.PerPage)
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(101, Params{Page: 2, PerPage: 50})
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 50, meta.Limit)
	assert.Equal(t, int64(101), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	meta = BuildMeta(0, Params{Page: 1, PerPage: 50})
	assert.Equal(t, 0, meta.TotalPages)
}
