package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubHandler struct{ called bool }

func (s *stubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.called = true }

func TestContentTypeMuxRoutesHTTP2NonGRPCContentTypeToHTTP(t *testing.T) {
	grpcHandler := &stubHandler{}
	httpHandler := &stubHandler{}

	// contentTypeMux.grpc is a *grpc.Server, so the stub cannot be installed
	// there and the field stays nil: only the non-gRPC branch is exercised,
	// and a request wrongly routed to the nil gRPC server would panic.
	mux := &contentTypeMux{grpc: nil, http: httpHandler}

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.ProtoMajor = 2
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, httpHandler.called)
	assert.False(t, grpcHandler.called)
}

func TestContentTypeMuxRoutesHTTP1ToHTTPEvenWithGRPCContentType(t *testing.T) {
	httpHandler := &stubHandler{}
	mux := &contentTypeMux{grpc: nil, http: httpHandler}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.ProtoMajor = 1
	req.Header.Set("Content-Type", "application/grpc")
	mux.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, httpHandler.called)
}

func TestGinModeMapsEnvironment(t *testing.T) {
	assert.Equal(t, "debug", ginMode("development"))
	assert.Equal(t, "release", ginMode("production"))
	assert.Equal(t, "release", ginMode("staging"))
}
