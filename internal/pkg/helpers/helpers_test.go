package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"an":     "%an%",
		"50%":    `%50\%%`,
		"a_b":    `%a\_b%`,
		`c:\dir`: `%c:\\dir%`,
		"":       "%%",
	}
	for in, want := range tests {
		if got := ContainsPattern(in); got != want {
			t.Errorf("ContainsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?min=80.5&year=2&bad=x", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	if id, err := ParseIDParam(c, "id"); err != nil || id != 7 {
		t.Fatalf("ParseIDParam = %d, %v", id, err)
	}
	if v, err := ParseFloatQuery(c, "min"); err != nil || v != 80.5 {
		t.Fatalf("ParseFloatQuery = %v, %v", v, err)
	}
	if v, err := ParseIntQuery(c, "year"); err != nil || v != 2 {
		t.Fatalf("ParseIntQuery = %v, %v", v, err)
	}
	if _, err := ParseFloatQuery(c, "bad"); err == nil {
		t.Fatal("expected error for non-numeric query")
	}
	if _, err := ParseIntQuery(c, "missing"); err == nil {
		t.Fatal("expected error for missing query")
	}

	c.Params = gin.Params{{Key: "id", Value: "0"}}
	if _, err := ParseIDParam(c, "id"); err == nil {
		t.Fatal("expected error for non-positive id")
	}
}
