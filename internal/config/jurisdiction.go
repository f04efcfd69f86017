package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// StatutoryRate is one mandatory percentage-of-salary deduction. Rates are
// basis points (10000 = 100%) so profiles stay in integer arithmetic.
type StatutoryRate struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // "tax", "insurance" or "retirement"
	RateBps int64  `json:"rate_bps"`
}

// JurisdictionProfile is the full set of statutory rates for one
// jurisdiction. Profiles are configuration, never code: deployments swap
// jurisdictions by pointing STATUTORY_PROFILE_PATH at a different file.
type JurisdictionProfile struct {
	Code  string          `json:"code"`
	Rates []StatutoryRate `json:"rates"`
}

// DefaultJurisdictionProfile is the packaged fallback used when no profile
// file is configured: 7.5% income tax, 8% employee pension, 2.5% housing levy.
func DefaultJurisdictionProfile() JurisdictionProfile {
	return JurisdictionProfile{
		Code: "default",
		Rates: []StatutoryRate{
			{Name: "Income Tax", Kind: "tax", RateBps: 750},
			{Name: "Employee Pension", Kind: "retirement", RateBps: 800},
			{Name: "Housing Levy", Kind: "insurance", RateBps: 250},
		},
	}
}

// LoadJurisdictionProfile reads a profile from path, or returns the packaged
// default when path is empty.
func LoadJurisdictionProfile(path string) (JurisdictionProfile, error) {
	if path == "" {
		return DefaultJurisdictionProfile(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return JurisdictionProfile{}, fmt.Errorf("failed to read jurisdiction profile: %w", err)
	}

	var profile JurisdictionProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return JurisdictionProfile{}, fmt.Errorf("failed to parse jurisdiction profile: %w", err)
	}

	if profile.Code == "" {
		return JurisdictionProfile{}, fmt.Errorf("jurisdiction profile is missing a code")
	}
	for _, r := range profile.Rates {
		if r.Name == "" || r.RateBps < 0 {
			return JurisdictionProfile{}, fmt.Errorf("jurisdiction profile rate %q is invalid", r.Name)
		}
	}

	return profile, nil
}
