package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	return e.NewContext(req, rec), rec
}

func TestPaginated_RoundsTotalPagesUp(t *testing.T) {
	cases := []struct {
		name       string
		totalCount int64
		pageSize   int
		want       int
	}{
		{"partial last page", 45, 20, 3},
		{"exact fit", 40, 20, 2},
		{"empty", 0, 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t)

			if err := Paginated(c, []int{1, 2, 3}, 1, tc.pageSize, tc.totalCount); err != nil {
				t.Fatalf("Paginated returned error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}

			var body PaginatedResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			if !body.Success {
				t.Errorf("expected Success=true, got false")
			}
			if body.TotalCount != tc.totalCount {
				t.Errorf("expected TotalCount=%d, got %d", tc.totalCount, body.TotalCount)
			}
			if body.TotalPages != tc.want {
				t.Errorf("expected TotalPages=%d, got %d", tc.want, body.TotalPages)
			}
		})
	}
}

func TestOk_OmitsEmptyMessage(t *testing.T) {
	c, rec := newTestContext(t)

	if err := Ok(c, map[string]string{"status": "open"}); err != nil {
		t.Fatalf("Ok returned error: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if _, present := raw["message"]; present {
		t.Errorf("expected no message field in body, got %s", rec.Body.String())
	}
	if _, present := raw["data"]; !present {
		t.Errorf("expected data field in body, got %s", rec.Body.String())
	}
}
