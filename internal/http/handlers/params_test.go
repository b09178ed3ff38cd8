package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSnake(t *testing.T) {
	cases := map[string]string{"petId": "pet_id", "productId": "product_id", "limit": "limit"}
	for in, want := range cases {
		if got := snake(in); got != want {
			t.Fatalf("snake(%q) want=%q got=%q", in, want, got)
		}
	}
}

func TestInvalidParamsAnswerWithCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p/:petId", func(c *gin.Context) {
		if _, err := uuidParam(c, "petId"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
			return
		}
		n, err := queryPositiveInt(c, "limit")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"limit": n})
	})

	cases := []struct {
		path string
		code int
		body string
	}{
		{"/p/not-a-uuid", http.StatusBadRequest, "invalid_pet_id"},
		{"/p/6f1b8c8e-3f52-4b7a-9d55-0a1c2b3d4e5f?limit=0", http.StatusBadRequest, "invalid_limit"},
		{"/p/6f1b8c8e-3f52-4b7a-9d55-0a1c2b3d4e5f?limit=x", http.StatusBadRequest, "invalid_limit"},
		{"/p/6f1b8c8e-3f52-4b7a-9d55-0a1c2b3d4e5f?limit=4", http.StatusOK, `"limit":4`},
		{"/p/6f1b8c8e-3f52-4b7a-9d55-0a1c2b3d4e5f", http.StatusOK, `"limit":0`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.code || !strings.Contains(rec.Body.String(), tc.body) {
			t.Fatalf("path=%s want=%d/%s got=%d/%s", tc.path, tc.code, tc.body, rec.Code, rec.Body.String())
		}
	}
}
