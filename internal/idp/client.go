// Package idp talks to the external identity provider (Keycloak) through
// its admin REST API. The provider is the only system that holds
// credentials; local user records never store passwords.
package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"financeapp/internal/apperrors"
)

const adminTokenRealm = "master"

// NewAccount carries the fields needed to open an enabled, pre-verified
// account at the provider.
type NewAccount struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// Client is the provisioning contract against the identity provider.
type Client interface {
	CreateAccount(ctx context.Context, account NewAccount) (string, error)
	AssignRealmRole(ctx context.Context, accountID, role string) error
	FindAccountIDByUsername(ctx context.Context, username string) (string, error)
	DeleteAccount(ctx context.Context, accountID string) error
}

// KeycloakClient implements Client against a Keycloak realm, authenticating
// with the admin-cli password grant on the master realm.
type KeycloakClient struct {
	baseURL       string
	realm         string
	adminUser     string
	adminPassword string
	httpClient    *http.Client
}

func NewKeycloakClient(baseURL, realm, adminUser, adminPassword string) *KeycloakClient {
	return &KeycloakClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		realm:         realm,
		adminUser:     adminUser,
		adminPassword: adminPassword,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *KeycloakClient) adminToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", "admin-cli")
	form.Set("username", c.adminUser)
	form.Set("password", c.adminPassword)

	tokenURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.baseURL, adminTokenRealm)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access token")
	}
	return body.AccessToken, nil
}

func (c *KeycloakClient) doJSON(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	token, err := c.adminToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not obtain admin token: %v", err)
	}

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// CreateAccount opens an enabled, email-verified account with a permanent
// password credential and returns the provider's account id. A duplicate
// username surfaces as apperrors.ErrUsernameTaken.
func (c *KeycloakClient) CreateAccount(ctx context.Context, account NewAccount) (string, error) {
	payload := map[string]interface{}{
		"username":      account.Username,
		"email":         account.Email,
		"firstName":     account.FirstName,
		"lastName":      account.LastName,
		"enabled":       true,
		"emailVerified": true,
		"credentials": []map[string]interface{}{
			{"type": "password", "value": account.Password, "temporary": false},
		},
	}

	resp, err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/admin/realms/%s/users", c.realm), payload)
	if err != nil {
		return "", apperrors.NewProvisioningError("create account", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return "", apperrors.ErrUsernameTaken
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", apperrors.NewProvisioningError("create account", fmt.Errorf("provider returned %s", resp.Status))
	}

	// The create response carries no body; resolve the id the same way
	// the rest of the system does, by username lookup.
	accountID, err := c.FindAccountIDByUsername(ctx, account.Username)
	if err != nil {
		return "", apperrors.NewProvisioningError("resolve created account id", err)
	}
	return accountID, nil
}

// AssignRealmRole grants the named realm role to the account. The role must
// already exist at the provider.
func (c *KeycloakClient) AssignRealmRole(ctx context.Context, accountID, role string) error {
	resp, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/admin/realms/%s/roles/%s", c.realm, url.PathEscape(role)), nil)
	if err != nil {
		return apperrors.NewProvisioningError("fetch role", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewProvisioningError("fetch role", fmt.Errorf("role %q: provider returned %s", role, resp.Status))
	}

	var roleRep struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&roleRep); err != nil {
		return apperrors.NewProvisioningError("fetch role", err)
	}

	assignResp, err := c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("/admin/realms/%s/users/%s/role-mappings/realm", c.realm, url.PathEscape(accountID)),
		[]interface{}{roleRep})
	if err != nil {
		return apperrors.NewProvisioningError("assign role", err)
	}
	defer assignResp.Body.Close()

	if assignResp.StatusCode < 200 || assignResp.StatusCode >= 300 {
		return apperrors.NewProvisioningError("assign role", fmt.Errorf("provider returned %s", assignResp.Status))
	}
	return nil
}

// FindAccountIDByUsername resolves the provider account id for a username.
// When the provider reports several matches the first result is used; the
// search is exact, so duplicates only differ in casing at the provider.
func (c *KeycloakClient) FindAccountIDByUsername(ctx context.Context, username string) (string, error) {
	path := fmt.Sprintf("/admin/realms/%s/users?username=%s&exact=true", c.realm, url.QueryEscape(username))
	resp, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", apperrors.NewProvisioningError("find account", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewProvisioningError("find account", fmt.Errorf("provider returned %s", resp.Status))
	}

	var results []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", apperrors.NewProvisioningError("find account", err)
	}

	if len(results) == 0 {
		return "", apperrors.ErrNotFound
	}
	return results[0].ID, nil
}

// DeleteAccount removes the account at the provider. A missing account is
// reported as apperrors.ErrNotFound so callers can treat the delete as
// idempotent on absence.
func (c *KeycloakClient) DeleteAccount(ctx context.Context, accountID string) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/realms/%s/users/%s", c.realm, url.PathEscape(accountID)), nil)
	if err != nil {
		return apperrors.NewProvisioningError("delete account", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return apperrors.NewProvisioningError("delete account", fmt.Errorf("provider returned %s", resp.Status))
	}
	return nil
}
