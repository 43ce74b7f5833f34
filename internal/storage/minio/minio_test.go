package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/go-social-platform/internal/config"
	"github.com/pribylovaa/go-social-platform/internal/storage"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты поднимают MinIO через testcontainers-go.
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/minio -v -count=1

func testConfig(endpoint string) *config.Config {
	return &config.Config{
		S3: config.S3Config{
			Endpoint:            endpoint,
			RootUser:            "root",
			RootPassword:        "rootpass",
			Bucket:              "media",
			PresignTTL:          2 * time.Minute,
			PublicBaseURL:       "http://cdn.local/",
			MaxSizeBytes:        1 << 20,
			AllowedContentTypes: []string{"image/png", "video/mp4"},
		},
	}
}

func TestUploadURL_RejectsBeforeNetwork(t *testing.T) {
	s := &MediaStorage{cfg: testConfig("http://unused:9000")}

	tests := []struct {
		name        string
		username    string
		contentType string
		size        int64
	}{
		{"guest", "", "image/png", 10},
		{"zero_size", "alice", "image/png", 0},
		{"too_big", "alice", "image/png", 2 << 20},
		{"type", "alice", "application/pdf", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.UploadURL(context.Background(), tt.username, tt.contentType, tt.size)
			require.ErrorIs(t, err, storage.ErrInvalidMedia)
		})
	}
}

func TestConfirmUpload_ForeignKey(t *testing.T) {
	s := &MediaStorage{cfg: testConfig("http://unused:9000")}

	_, err := s.ConfirmUpload(context.Background(), "alice", "posts/bob/x.png")
	require.ErrorIs(t, err, storage.ErrInvalidMedia)

	_, err = s.ConfirmUpload(context.Background(), "alice", "posts/alice/../bob/x.png")
	require.ErrorIs(t, err, storage.ErrInvalidMedia)
}

func TestPublicURL(t *testing.T) {
	s := &MediaStorage{cfg: testConfig("")}
	require.Equal(t, "http://cdn.local/posts/a/b.png", s.PublicURL("posts/a/b.png"))

	s.cfg.S3.PublicBaseURL = ""
	require.Equal(t, "posts/a/b.png", s.PublicURL("posts/a/b.png"))
}

func TestExtensionFor(t *testing.T) {
	require.Equal(t, ".mp4", extensionFor("video/mp4"))
	require.Equal(t, ".jpg", extensionFor("image/jpeg"))
	require.Equal(t, "", extensionFor("text/plain"))
}

func startMinio(t *testing.T) *MediaStorage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image: "docker.io/minio/minio:latest",
		Env: map[string]string{
			"MINIO_ROOT_USER":     "root",
			"MINIO_ROOT_PASSWORD": "rootpass",
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	admin, err := mclient.New(host+":"+port.Port(), &mclient.Options{
		Creds: credentials.NewStaticV4("root", "rootpass", ""),
	})
	require.NoError(t, err)
	require.NoError(t, admin.MakeBucket(ctx, "media", mclient.MakeBucketOptions{Region: "us-east-1"}))

	st, err := New(ctx, testConfig(fmt.Sprintf("http://%s:%s", host, port.Port())))
	require.NoError(t, err)

	return st
}

func TestIntegration_UploadAndConfirm(t *testing.T) {
	st := startMinio(t)
	ctx := context.Background()

	const size = 5
	ui, err := st.UploadURL(ctx, "alice", "image/png", size)
	require.NoError(t, err)
	require.Contains(t, ui.Key, "posts/alice/")
	require.Equal(t, strconv.Itoa(size), ui.RequiredHeader["Content-Length"])

	_, err = st.ConfirmUpload(ctx, "alice", ui.Key)
	require.ErrorIs(t, err, storage.ErrMediaNotFound)

	req, err := http.NewRequest(http.MethodPut, ui.UploadURL, bytes.NewReader(bytes.Repeat([]byte{0x42}, size)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "image/png")
	req.ContentLength = size

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Less(t, resp.StatusCode, 300)

	public, err := st.ConfirmUpload(ctx, "alice", ui.Key)
	require.NoError(t, err)
	require.Equal(t, "http://cdn.local/"+ui.Key, public)
}
