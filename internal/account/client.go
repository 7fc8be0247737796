// Package account talks to the account backend: authentication, the user
// record, the profile and the GPA kept on the server.
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ghzx55/graderevive/internal/config"
	"github.com/ghzx55/graderevive/internal/logger"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/rs/zerolog"
)

const (
	loginPath   = "/api/auth/login"
	signupPath  = "/api/auth/signup"
	userPath    = "/api/user"
	profilePath = "/api/user/profile"
	gpaPath     = "/api/gpa"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	log        zerolog.Logger
}

func NewClient(cfg config.AccountAPIConfig, tokens TokenStore) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		log:    logger.Get(),
	}
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	err := c.do(ctx, http.MethodPost, loginPath, model.CredentialsRequest{Email: email, Password: password}, false, &resp)
	if err != nil {
		var apiErr errors.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", errors.ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}

	if resp.Token == "" {
		return nil, errors.APIError{StatusCode: http.StatusOK, Message: "login response carried no token"}
	}

	if err := c.tokens.Save(resp.Token); err != nil {
		return nil, err
	}

	c.log.Debug().Str("email", email).Msg("Logged in")
	return &resp, nil
}

func (c *Client) Signup(ctx context.Context, email, password string) (*model.SignupResponse, error) {
	var resp model.SignupResponse
	if err := c.do(ctx, http.MethodPost, signupPath, model.CredentialsRequest{Email: email, Password: password}, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout forgets the local token. The server keeps no session to end.
func (c *Client) Logout(ctx context.Context) (*model.MessageResponse, error) {
	if err := c.tokens.Clear(); err != nil {
		return nil, err
	}
	return &model.MessageResponse{Message: "Logged out successfully"}, nil
}

// LoggedIn reports whether a token is stored.
func (c *Client) LoggedIn() (bool, error) {
	token, err := c.tokens.Load()
	if err != nil {
		return false, err
	}
	return token != "", nil
}

func (c *Client) GetUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, userPath, nil, true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPut, userPath, model.EmailRequest{Email: email}, true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context) (*model.MessageResponse, error) {
	return c.delete(ctx, userPath)
}

func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := c.do(ctx, http.MethodGet, profilePath, nil, true, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := c.do(ctx, http.MethodPut, profilePath, model.EmailRequest{Email: email}, true, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) DeleteProfile(ctx context.Context) (*model.MessageResponse, error) {
	return c.delete(ctx, profilePath)
}

func (c *Client) GetGPA(ctx context.Context) (*model.GPARecord, error) {
	var record model.GPARecord
	if err := c.do(ctx, http.MethodGet, gpaPath, nil, true, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) UpdateGPA(ctx context.Context, gpa float64) (*model.GPARecord, error) {
	var record model.GPARecord
	if err := c.do(ctx, http.MethodPut, gpaPath, model.GPARequest{GPA: &gpa}, true, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) DeleteGPA(ctx context.Context) (*model.MessageResponse, error) {
	return c.delete(ctx, gpaPath)
}

func (c *Client) delete(ctx context.Context, path string) (*model.MessageResponse, error) {
	var resp model.MessageResponse
	if err := c.do(ctx, http.MethodDelete, path, nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends one JSON request. With authenticated set, the stored token is
// attached when there is one; without a token the request goes out bare and
// the server decides.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, authenticated bool, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if authenticated {
		token, err := c.tokens.Load()
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		} else {
			c.log.Debug().Str("path", path).Msg("No stored token, sending unauthenticated request")
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewRetryableError(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewRetryableError(err, "failed to read response")
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("Account API call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := errors.APIError{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.Status)}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return errors.NewRetryableError(apiErr, "account service unavailable")
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage pulls "error" or "message" out of a JSON error body.
func errorMessage(data []byte, fallback string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fallback
}
