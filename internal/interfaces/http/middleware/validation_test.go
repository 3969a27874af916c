package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickshop/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError(t *testing.T) {
	type addItemRequest struct {
		ProductID string `json:"product_id" binding:"required,uuid"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(RequestID())
		router.POST("/cart/items", func(c *gin.Context) {
			var req addItemRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				HandleValidationError(c, err)
				return
			}
			c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
		})
		return router
	}

	postJSON := func(router *gin.Engine, payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("lists each failing field with its JSON name", func(t *testing.T) {
		w := postJSON(newRouter(), `{"product_id": "not-a-uuid", "quantity": 2}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.NotEmpty(t, resp.Error.RequestID)

		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "product_id", resp.Error.Details[0].Field)
		assert.Equal(t, "Invalid UUID format", resp.Error.Details[0].Message)
	})

	t.Run("reports every missing required field", func(t *testing.T) {
		w := postJSON(newRouter(), `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Len(t, resp.Error.Details, 2)
		for _, d := range resp.Error.Details {
			assert.Equal(t, "This field is required", d.Message)
		}
	})

	t.Run("valid payload passes through", func(t *testing.T) {
		w := postJSON(newRouter(), `{"product_id": "0b2e99a7-6c5e-4f3a-9d28-54a451f7a9c1", "quantity": 2}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestFormatValidationErrors(t *testing.T) {
	type registerRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	v := validator.New()
	err := v.Struct(registerRequest{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-reg-7")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-reg-7", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assertableError("boom"), "req-x")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

type assertableError string

func (e assertableError) Error() string { return string(e) }

func TestGetValidationMessage(t *testing.T) {
	type productForm struct {
		Name     string `validate:"required"`
		Category string `validate:"oneof=drinkware apparel stationery"`
		Price    int    `validate:"gte=1"`
		Stock    int    `validate:"lt=10000"`
		SKU      string `validate:"len=8"`
		ImageURL string `validate:"url"`
		Email    string `validate:"email"`
		Notes    string `validate:"max=10"`
	}

	v := validator.New()
	err := v.Struct(productForm{
		Category: "hardware",
		Price:    0,
		Stock:    20000,
		SKU:      "ab",
		ImageURL: "not a url",
		Email:    "not-an-email",
		Notes:    "this note is far too long",
	})
	require.Error(t, err)

	expected := map[string]string{
		"Name":     "This field is required",
		"Category": "Must be one of: drinkware apparel stationery",
		"Price":    "Must be greater than or equal to 1",
		"Stock":    "Must be less than 10000",
		"SKU":      "Must be exactly 8 characters",
		"ImageURL": "Invalid URL format",
		"Email":    "Invalid email format",
		"Notes":    "Must be at most 10 characters",
	}

	validationErrs := err.(validator.ValidationErrors)
	require.Len(t, validationErrs, len(expected))
	for _, e := range validationErrs {
		assert.Equal(t, expected[e.StructField()], getValidationMessage(e), e.StructField())
	}
}
