package detector

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-ecoagent/types"
)

func TestDetectDecodesResponse(t *testing.T) {
	var gotPath string
	var gotBody detectRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(detectResponse{
			Count: 2,
			Boxes: []types.BoundingBox{
				{X: 1, Y: 2, W: 10, H: 20, Confidence: 0.9, Label: "person"},
				{X: 5, Y: 6, W: 10, H: 20, Confidence: 0.7, Label: "person"},
			},
			AnnotatedImage: base64.StdEncoding.EncodeToString([]byte("jpegbytes")),
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	result, err := c.Detect(context.Background(), []byte("framebytes"))
	require.NoError(t, err)

	require.Equal(t, "/detect", gotPath)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("framebytes")), gotBody.Image)
	require.Equal(t, 2, result.Count)
	require.Len(t, result.Boxes, 2)
	require.Equal(t, []byte("jpegbytes"), result.AnnotatedImage)
}

func TestDetectNon200IsModelUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.Detect(context.Background(), []byte("frame"))
	require.ErrorIs(t, err, types.ErrModelUnavailable)
}

func TestDetectUnreachableIsModelUnavailable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, nil)
	_, err := c.Detect(context.Background(), []byte("frame"))
	require.ErrorIs(t, err, types.ErrModelUnavailable)
}
