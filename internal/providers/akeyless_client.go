package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	akeyless "github.com/akeylesslabs/akeyless-go/v3"
)

// akeylessSDKClient implements AkeylessClient using the official SDK
type akeylessSDKClient struct {
	apiClient *akeyless.APIClient
	config    AkeylessConfig
}

func newAkeylessSDKClient(cfg AkeylessConfig) *akeylessSDKClient {
	configuration := akeyless.NewConfiguration()
	configuration.Servers = []akeyless.ServerConfiguration{
		{URL: cfg.GatewayURL},
	}

	return &akeylessSDKClient{
		apiClient: akeyless.NewAPIClient(configuration),
		config:    cfg,
	}
}

// Authenticate exchanges access_id and access_key for a session token
func (c *akeylessSDKClient) Authenticate(ctx context.Context) (string, error) {
	authBody := akeyless.NewAuthWithDefaults()
	authBody.SetAccessId(c.config.AccessID)
	authBody.SetAccessKey(c.config.AccessKey)

	authRes, httpRes, err := c.apiClient.V2Api.Auth(ctx).Body(*authBody).Execute()
	if err != nil {
		if httpRes != nil && (httpRes.StatusCode == http.StatusUnauthorized || httpRes.StatusCode == http.StatusForbidden) {
			return "", fmt.Errorf("%w: %v", ErrAkeylessUnauthorized, err)
		}
		return "", fmt.Errorf("api key authentication failed: %w", err)
	}

	return authRes.GetToken(), nil
}

// GetSecretValue retrieves a static secret by path
func (c *akeylessSDKClient) GetSecretValue(ctx context.Context, token, path string) (string, error) {
	body := akeyless.NewGetSecretValue([]string{path})
	body.SetToken(token)

	res, httpRes, err := c.apiClient.V2Api.GetSecretValue(ctx).Body(*body).Execute()
	if err != nil {
		if httpRes != nil {
			switch httpRes.StatusCode {
			case http.StatusNotFound:
				return "", ErrAkeylessSecretNotFound
			case http.StatusUnauthorized, http.StatusForbidden:
				return "", fmt.Errorf("%w: %v", ErrAkeylessUnauthorized, err)
			}
		}
		return "", err
	}

	// GetSecretValue returns a map of path -> value
	value, ok := res[path]
	if !ok {
		return "", ErrAkeylessSecretNotFound
	}

	switch v := any(value).(type) {
	case string:
		return v, nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode secret value: %w", err)
		}
		return string(encoded), nil
	}
}
