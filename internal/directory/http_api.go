package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-authgate/apigate/internal/core"
	"github.com/go-authgate/apigate/internal/models"

	retry "github.com/appleboy/go-httpretry"
)

var _ core.UserDirectory = (*HTTPAPIDirectory)(nil)

// HTTPAPIDirectory resolves users through an external identity service.
type HTTPAPIDirectory struct {
	baseURL     string
	retryClient *retry.Client
}

// NewHTTPAPIDirectory creates a directory that calls baseURL with retryClient.
func NewHTTPAPIDirectory(baseURL string, retryClient *retry.Client) *HTTPAPIDirectory {
	return &HTTPAPIDirectory{
		baseURL:     strings.TrimRight(baseURL, "/"),
		retryClient: retryClient,
	}
}

// APILookupRequest is the request payload of POST /lookup
type APILookupRequest struct {
	Username string `json:"username"`
}

// APIUser is a user record as returned by the external API
type APIUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// APILookupResponse is the expected response of POST /lookup
type APILookupResponse struct {
	Found bool     `json:"found"`
	User  *APIUser `json:"user,omitempty"`
}

// APIVerifyRequest is the request payload of POST /verify
type APIVerifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// APIVerifyResponse is the expected response of POST /verify
type APIVerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// doPostRequest posts reqBody as JSON and returns the status code and body.
func (d *HTTPAPIDirectory) doPostRequest(
	ctx context.Context,
	endpoint string,
	reqBody any,
) (int, []byte, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := d.retryClient.Post(
		ctx,
		d.baseURL+endpoint,
		retry.WithBody("application/json", bytes.NewBuffer(jsonData)),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrHTTPAPIConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: failed to read response", ErrHTTPAPIInvalidResp)
	}

	return resp.StatusCode, body, nil
}

// FindByUsername returns (nil, nil) on 404 or found=false.
func (d *HTTPAPIDirectory) FindByUsername(
	ctx context.Context,
	username string,
) (*models.User, error) {
	status, body, err := d.doPostRequest(ctx, "/lookup", APILookupRequest{Username: username})
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, nil
	}
	if status < 200 || status >= 300 {
		return nil, statusError(status, body)
	}

	var apiResp APILookupResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTTPAPIInvalidResp, err)
	}
	if !apiResp.Found {
		return nil, nil
	}

	// Validate that a user record is provided when found
	if apiResp.User == nil || apiResp.User.ID == "" {
		return nil, fmt.Errorf(
			"%w: external API returned found=true but missing user id",
			ErrHTTPAPIInvalidResp,
		)
	}

	resolved := apiResp.User.Username
	if resolved == "" {
		resolved = username
	}

	return &models.User{
		ID:         apiResp.User.ID,
		Username:   resolved,
		Email:      apiResp.User.Email,
		FullName:   apiResp.User.FullName,
		ExternalID: apiResp.User.ID,
		AuthSource: models.AuthSourceHTTPAPI,
	}, nil
}

// CompareCredential asks the external API to verify password. The password
// is compared remotely and never logged.
func (d *HTTPAPIDirectory) CompareCredential(
	ctx context.Context,
	user *models.User,
	password string,
) (bool, error) {
	if user == nil {
		return false, nil
	}

	status, body, err := d.doPostRequest(ctx, "/verify", APIVerifyRequest{
		Username: user.Username,
		Password: password,
	})
	if err != nil {
		return false, err
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusNotFound:
		return false, nil
	case status < 200 || status >= 300:
		return false, statusError(status, body)
	}

	var apiResp APIVerifyResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return false, fmt.Errorf("%w: %v", ErrHTTPAPIInvalidResp, err)
	}

	return apiResp.Success, nil
}

// Name returns directory name for logging
func (d *HTTPAPIDirectory) Name() string {
	return NameHTTPAPI
}

func statusError(status int, body []byte) error {
	// Limit body preview to 200 characters to avoid overwhelming logs
	bodyPreview := string(body)
	if len(bodyPreview) > 200 {
		bodyPreview = bodyPreview[:200] + "..."
	}
	return fmt.Errorf("%w: HTTP %d - %s", ErrHTTPAPIInvalidResp, status, bodyPreview)
}
