package authflowrepo

import "time"

// AuthFlowState is what the callback needs to finish a Google sign-in
type AuthFlowState struct {
	SessionID    string
	CodeVerifier string
	Nonce        string
	ReturnURL    string
	CreatedAt    time.Time
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	// Take returns the state and removes it so it can only be used once
	Take(state string) (*AuthFlowState, error)
	// Sweep removes flows created before cutoff and returns how many were dropped
	Sweep(cutoff time.Time) int
}
