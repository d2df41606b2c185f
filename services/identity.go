package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

const identityTimeout = 8 * time.Second

// UpdatePassword forwards a password change to the external identity provider.
// The call carries an explicit deadline; hitting it surfaces as ErrTimeout so
// handlers can answer 504 instead of a generic storage failure.
func UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if newPassword == "" {
		return validationf("password is required")
	}
	providerURL := os.Getenv("IDENTITY_PROVIDER_URL")
	if providerURL == "" {
		return storagef("IDENTITY_PROVIDER_URL not configured")
	}

	body, err := json.Marshal(map[string]string{
		"user_id":  userID,
		"password": newPassword,
	})
	if err != nil {
		return validationf("encode password payload: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, identityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, providerURL+"/users/password", bytes.NewReader(body))
	if err != nil {
		return storagef("build identity request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := os.Getenv("IDENTITY_PROVIDER_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: identity provider did not answer in %s", ErrTimeout, identityTimeout)
		}
		return storagef("identity provider call: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return storagef("identity provider returned status %d", resp.StatusCode)
	}
	return nil
}
