package dto

import (
	"time"

	autofillDomain "github.com/credvault/credvault/internal/autofill/domain"
)

// Extension-facing error codes. These are part of the message contract with
// the browser extension and are stable.
const (
	ErrorCodeNotAuthenticated = "NOT_AUTHENTICATED"
	ErrorCodeNoCredentials    = "NO_CREDENTIALS"
	ErrorCodeMissingHost      = "MISSING_HOST"
)

// MatchResponse is one candidate credential offered for disambiguation. The
// label combines the credential name and decrypted username.
type MatchResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocateData is the payload of a successful resolution. Username and secret
// belong to the selected credential and are empty while disambiguation is
// pending.
type LocateData struct {
	Username   string          `json:"username,omitempty"`
	Secret     string          `json:"secret,omitempty"`
	MatchCount int             `json:"match_count"`
	Selected   *string         `json:"selected,omitempty"`
	Matches    []MatchResponse `json:"matches"`
}

// LocateResponse is the envelope of the extension message contract.
type LocateResponse struct {
	OK    bool        `json:"ok"`
	Data  *LocateData `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// MapLocateResultToResponse converts a locate result to the extension
// envelope. Zero matches become an ok=false NO_CREDENTIALS outcome.
func MapLocateResultToResponse(result *autofillDomain.LocateResult) LocateResponse {
	if result.MatchCount == 0 {
		return LocateResponse{OK: false, Error: ErrorCodeNoCredentials}
	}

	data := &LocateData{
		MatchCount: result.MatchCount,
		Matches:    make([]MatchResponse, 0, len(result.Matches)),
	}
	for _, credential := range result.Matches {
		data.Matches = append(data.Matches, MatchResponse{
			ID:        credential.ID.String(),
			Label:     credential.Label(),
			UpdatedAt: credential.UpdatedAt,
		})
	}
	if result.Selected != nil {
		selectedID := result.Selected.ID.String()
		data.Selected = &selectedID
		data.Username = result.Selected.Username
		data.Secret = result.Selected.Secret
	}
	return LocateResponse{OK: true, Data: data}
}

// ErrorResponse builds an ok=false envelope carrying one of the contract
// error codes.
func ErrorResponse(code string) LocateResponse {
	return LocateResponse{OK: false, Error: code}
}
