package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"github.com/localnerve/jam-build-shoppinglist/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readPayload runs read against body inside a request and returns its result
func readPayload[T any](t *testing.T, body string, partial bool, read func(*payload) T) (T, error) {
	t.Helper()

	var (
		out     T
		readErr error
	)
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		p, err := decodePayload(c, partial)
		if err != nil {
			readErr = err
			return nil
		}
		out = read(p)
		readErr = p.err()
		return nil
	})

	req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	_, err := app.Test(req, -1)
	require.NoError(t, err)
	return out, readErr
}

func TestBooleanSpellings(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"v": true}`, true},
		{`{"v": "yes"}`, true},
		{`{"v": "On"}`, true},
		{`{"v": 1}`, true},
		{`{"v": "f"}`, false},
		{`{"v": "off"}`, false},
		{`{"v": 0}`, false},
	}
	for _, tt := range tests {
		got, err := readPayload(t, tt.body, false, func(p *payload) *bool { return p.boolean("v") })
		require.NoError(t, err, tt.body)
		require.NotNil(t, got, tt.body)
		assert.Equal(t, tt.want, *got, tt.body)
	}

	_, err := readPayload(t, `{"v": 2}`, false, func(p *payload) *bool { return p.boolean("v") })
	var fe types.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{msgNotBoolean}, fe["v"])
}

func TestIntegerCoercion(t *testing.T) {
	read := func(p *payload) services.Nullable[int] {
		return p.integer("v", intField{allowNull: true, rules: "min=1"})
	}

	got, err := readPayload(t, `{"v": "7.00 "}`, false, read)
	require.NoError(t, err)
	require.NotNil(t, got.Value)
	assert.Equal(t, 7, *got.Value)

	got, err = readPayload(t, `{"v": null}`, false, read)
	require.NoError(t, err)
	assert.True(t, got.Set)
	assert.Nil(t, got.Value)

	got, err = readPayload(t, `{}`, false, read)
	require.NoError(t, err)
	assert.False(t, got.Set)

	_, err = readPayload(t, `{"v": [1]}`, false, read)
	var fe types.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{msgNotInteger}, fe["v"])
}

func TestCharAcceptsNumbers(t *testing.T) {
	got, err := readPayload(t, `{"name": 42}`, false, func(p *payload) *string {
		return p.text("name", "max=220")
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "42", *got)

	_, err = readPayload(t, `{"name": {"a": 1}}`, false, func(p *payload) *string {
		return p.text("name", "max=220")
	})
	var fe types.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{msgNotString}, fe["name"])
}

func TestPartialSkipsRequired(t *testing.T) {
	in, err := readPayload(t, `{"note": "x"}`, true, itemInput)
	require.NoError(t, err)
	assert.Nil(t, in.Product)
	assert.Nil(t, in.Category)
	require.NotNil(t, in.Note.Value)
	assert.Equal(t, "x", *in.Note.Value)

	_, err = readPayload(t, `{"note": "x"}`, false, itemInput)
	var fe types.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{msgRequired}, fe["product"])
	assert.Equal(t, []string{msgRequired}, fe["category"])
}

func TestDecodePayloadRejects(t *testing.T) {
	_, err := readPayload(t, `"just a string"`, false, func(p *payload) bool { return true })
	var fe types.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"Invalid data. Expected a dictionary, but got str."}, fe[types.NonFieldErrors])

	_, err = readPayload(t, `{"a": 1} {"b": 2}`, false, func(p *payload) bool { return true })
	var ce *types.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, fiber.StatusBadRequest, ce.Code)
}
