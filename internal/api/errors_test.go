package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shobhitraaj/skytarget/internal/document"
)

func TestParseErrorResponseMapping(t *testing.T) {
	tests := []struct {
		kind document.ErrorKind
		want ErrorCode
	}{
		{document.ErrMalformedSchema, ErrCodeMalformedSchema},
		{document.ErrUnknownKey, ErrCodeUnknownKey},
		{document.ErrTypeMismatch, ErrCodeTypeMismatch},
		{document.ErrMissingField, ErrCodeMissingField},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			err := document.NewParseError(tt.kind, "tags.and[1]", "boom")
			req := httptest.NewRequest(http.MethodPost, "/v1/messages", nil)
			rr := httptest.NewRecorder()
			ParseErrorResponse(rr, req, err)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.want {
				t.Errorf("Code = %s, want %s", resp.Code, tt.want)
			}
			if resp.Path != "tags.and[1]" {
				t.Errorf("Path = %q, want %q", resp.Path, "tags.and[1]")
			}
		})
	}
}

func TestParseErrorResponseFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", nil)
	rr := httptest.NewRecorder()
	ParseErrorResponse(rr, req, errors.New("plain error"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrCodeBadRequest {
		t.Errorf("Code = %s, want %s", resp.Code, ErrCodeBadRequest)
	}
}
