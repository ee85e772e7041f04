package httpx

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	t.Run("decodes flat string map", func(t *testing.T) {
		body := `{"qr1": "https://a.example/menu", "qr2": ""}`
		req := httptest.NewRequest("POST", "/config/redirects", strings.NewReader(body))

		got, err := DecodeJSON[map[string]string](req)
		if err != nil {
			t.Fatalf("DecodeJSON() unexpected error: %v", err)
		}
		if got["qr1"] != "https://a.example/menu" {
			t.Errorf("qr1 = %s, want https://a.example/menu", got["qr1"])
		}
		if v, ok := got["qr2"]; !ok || v != "" {
			t.Errorf("qr2 = %q (present=%v), want empty string present", v, ok)
		}
	})

	t.Run("rejects empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/config/redirects", strings.NewReader(""))

		_, err := DecodeJSON[map[string]string](req)
		if err == nil {
			t.Fatal("DecodeJSON() expected error for empty body")
		}
		if err.Error() != "request body is empty" {
			t.Errorf("error = %q, want 'request body is empty'", err.Error())
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/config/redirects", strings.NewReader(`{"qr1":`))

		if _, err := DecodeJSON[map[string]string](req); err == nil {
			t.Fatal("DecodeJSON() expected error for malformed JSON")
		}
	})

	t.Run("rejects multiple JSON objects", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/config/redirects", strings.NewReader(`{"a":"b"}{"c":"d"}`))

		_, err := DecodeJSON[map[string]string](req)
		if err == nil {
			t.Fatal("DecodeJSON() expected error for trailing data")
		}
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		var buf bytes.Buffer
		buf.WriteString(`{"qr1": "`)
		buf.Write(bytes.Repeat([]byte("x"), MaxRequestBodySize+1))
		buf.WriteString(`"}`)
		req := httptest.NewRequest("POST", "/config/redirects", &buf)

		if _, err := DecodeJSON[map[string]string](req); err == nil {
			t.Fatal("DecodeJSON() expected error for oversized body")
		}
	})
}
