package httpx

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	t.Run("writes status and body", func(t *testing.T) {
		rr := httptest.NewRecorder()

		WriteJSON(rr, 200, map[string]string{"qr1": "https://a.example/menu"})

		if rr.Code != 200 {
			t.Errorf("status = %d, want 200", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}

		var body map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["qr1"] != "https://a.example/menu" {
			t.Errorf("body[qr1] = %s, want https://a.example/menu", body["qr1"])
		}
	})
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, 502, "store_unavailable", "backing store unreachable", nil)

	if rr.Code != 502 {
		t.Errorf("status = %d, want 502", rr.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Error != "store_unavailable" {
		t.Errorf("error = %s, want store_unavailable", resp.Error)
	}
	if resp.Message != "backing store unreachable" {
		t.Errorf("message = %s, want backing store unreachable", resp.Message)
	}
}

func TestWriteNoContent(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteNoContent(rr)

	if rr.Code != 204 {
		t.Errorf("status = %d, want 204", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rr.Body.String())
	}
}
