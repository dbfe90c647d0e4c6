package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/http/response"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

func TestRespondServiceErrorCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "conflict", err: service.ErrCartEmpty, wantCode: response.CodeConflict, wantMsg: "cart is empty"},
		{name: "bad_request", err: fmt.Errorf("%w: units must be positive", service.ErrPurchaseCostInvalid), wantCode: response.CodeBadRequest},
		{name: "not_found", err: service.ErrBatchNotFound, wantCode: response.CodeNotFound},
		{name: "transient", err: fmt.Errorf("%w: upsert catalog entry: disk I/O error", service.ErrTransientIO), wantCode: response.CodeServiceUnavailable, wantMsg: "sync failed"},
		{name: "unknown", err: fmt.Errorf("boom"), wantCode: response.CodeInternal, wantMsg: "sync failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

			respondServiceError(c, tc.err, "sync failed")

			if w.Code != http.StatusOK {
				t.Fatalf("http status want 200 got %d", w.Code)
			}
			var body struct {
				StatusCode int    `json:"status_code"`
				Msg        string `json:"msg"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body failed: %v", err)
			}
			if body.StatusCode != tc.wantCode {
				t.Fatalf("code want %d got %d", tc.wantCode, body.StatusCode)
			}
			if tc.wantMsg != "" && body.Msg != tc.wantMsg {
				t.Fatalf("msg want %q got %q", tc.wantMsg, body.Msg)
			}
		})
	}
}
