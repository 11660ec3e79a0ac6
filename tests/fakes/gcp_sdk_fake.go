package fakes

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FakeGCPSecretManagerClient is an in-memory Secret Manager client
type FakeGCPSecretManagerClient struct {
	mu sync.Mutex

	// Versions maps version resource names (projects/X/secrets/Y/versions/Z) to payloads
	Versions map[string][]byte
	// Errors maps version resource names to errors to return
	Errors map[string]error

	// Requests records every accessed resource name
	Requests []string
	// Closed reports whether Close was called
	Closed bool
}

// NewFakeGCPSecretManagerClient creates a new mock GCP Secret Manager client
func NewFakeGCPSecretManagerClient() *FakeGCPSecretManagerClient {
	return &FakeGCPSecretManagerClient{
		Versions: make(map[string][]byte),
		Errors:   make(map[string]error),
	}
}

// AddSecretVersion stores a payload under projects/<project>/secrets/<name>/versions/<version>
func (f *FakeGCPSecretManagerClient) AddSecretVersion(projectID, secretName, version string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Versions[fmt.Sprintf("projects/%s/secrets/%s/versions/%s", projectID, secretName, version)] = data
}

// AddError configures an error for a version resource name
func (f *FakeGCPSecretManagerClient) AddError(resourceName string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[resourceName] = err
}

// AccessSecretVersion mocks the AccessSecretVersion RPC
func (f *FakeGCPSecretManagerClient) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Requests = append(f.Requests, req.GetName())

	if err, exists := f.Errors[req.GetName()]; exists {
		return nil, err
	}

	data, exists := f.Versions[req.GetName()]
	if !exists {
		return nil, status.Errorf(codes.NotFound, "Secret [%s] not found or has no versions", req.GetName())
	}

	return &secretmanagerpb.AccessSecretVersionResponse{
		Name:    req.GetName(),
		Payload: &secretmanagerpb.SecretPayload{Data: data},
	}, nil
}

// Close marks the client closed
func (f *FakeGCPSecretManagerClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}
