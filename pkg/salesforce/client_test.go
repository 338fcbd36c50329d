package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSFClient creates an sfClient backed by an httptest server.
func newTestSFClient(t *testing.T, handler http.Handler, opts ...ClientOption) Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	sf, err := gosf.Init(gosf.Creds{
		AccessToken: "test-token",
		Domain:      ts.URL,
	},
		gosf.WithValidateAuthentication(false),
		gosf.WithRoundTripper(http.DefaultTransport),
	)
	require.NoError(t, err)
	require.NotNil(t, sf)

	return NewClient(sf, opts...)
}

func TestSFClient_Query(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/query")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"totalSize": 1,
			"done":      true,
			"records": []map[string]any{
				{
					"attributes": map[string]any{"type": "Lead"},
					"Id":         "00Qxx",
					"Email":      "jo@acme.com",
				},
			},
		})
	})

	client := newTestSFClient(t, handler)

	var leads []Lead
	err := client.Query(context.Background(), "SELECT Id, Email FROM Lead", &leads)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "00Qxx", leads[0].ID)
	assert.Equal(t, "jo@acme.com", leads[0].Email)
}

func TestSFClient_Query_Error(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"message": "invalid SOQL", "errorCode": "MALFORMED_QUERY"},
		})
	})

	client := newTestSFClient(t, handler)

	var leads []Lead
	err := client.Query(context.Background(), "INVALID SOQL", &leads)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sf: query")
}

func TestSFClient_InsertCollection(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/composite/sobjects")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "00Q1", "success": true, "errors": []any{}},
			{"id": "00Q2", "success": true, "errors": []any{}},
		})
	})

	client := newTestSFClient(t, handler)

	results, err := client.InsertCollection(context.Background(), "Lead", leadRecords(2))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "00Q1", results[0].ID)
	assert.True(t, results[1].Success)
}

func TestSFClient_CancelledWait(t *testing.T) {
	handler := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("request should not be sent")
	})
	client := newTestSFClient(t, handler, WithRateLimit(0.001))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// The first call consumes the burst token; the second must wait.
	client.(*sfClient).limiter.Allow()
	_, err := client.InsertCollection(ctx, "Lead", leadRecords(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sf: rate limit")
}

func TestWithRateLimit(t *testing.T) {
	c := &sfClient{}
	WithRateLimit(0)(c)
	assert.Nil(t, c.limiter)

	WithRateLimit(5)(c)
	require.NotNil(t, c.limiter)
	assert.Equal(t, 5, c.limiter.Burst())
}
