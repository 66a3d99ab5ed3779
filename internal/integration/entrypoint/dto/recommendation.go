package dto

import (
	"github.com/richie-crm/planning-backend/internal/application/usecase/recommendation"
	"github.com/richie-crm/planning-backend/internal/domain/entity"
)

// RecommendationsRequest represents the request body for recommendations.
// The goal set always travels with the request; the profile is optional and
// otherwise fetched from the CRM.
type RecommendationsRequest struct {
	Goals   []GoalRequest   `json:"goals" binding:"required,min=1,dive"`
	Profile *ProfileRequest `json:"profile,omitempty"`
}

// AdvisoryResponse represents the external advisory payload.
type AdvisoryResponse struct {
	DebtStrategy  string   `json:"debt_strategy"`
	Warnings      []string `json:"warnings"`
	Opportunities []string `json:"opportunities"`
}

// RecommendationsResponse represents the recommendation outcome.
//
// AdvisoryAvailable is false either when the advisory source is not
// configured or when it failed for this attempt; AdvisoryRetryable tells the
// client whether trying again may help.
type RecommendationsResponse struct {
	Plan              PlanResponse      `json:"plan"`
	Advisory          *AdvisoryResponse `json:"advisory,omitempty"`
	AdvisoryAvailable bool              `json:"advisory_available"`
	AdvisoryCode      string            `json:"advisory_code,omitempty"`
	AdvisoryRetryable bool              `json:"advisory_retryable,omitempty"`
	Fingerprint       string            `json:"fingerprint"`
	CacheHit          bool              `json:"cache_hit"`
	AgeMinutes        float64           `json:"age_minutes"`
	Stale             bool              `json:"stale"`
}

// ClearCacheResponse reports how many cache entries were removed.
type ClearCacheResponse struct {
	Removed int64 `json:"removed"`
}

// ToRecommendationsResponse converts the use case output into its response
// form, marking the result stale when it is older than staleWarnMinutes.
func ToRecommendationsResponse(output *recommendation.GetRecommendationsOutput, staleWarnMinutes float64) RecommendationsResponse {
	resp := RecommendationsResponse{
		Plan:        ToPlanResponse(output.Recommendation.Plan),
		Fingerprint: output.Fingerprint,
		CacheHit:    output.CacheHit,
		AgeMinutes:  output.AgeMinutes,
		Stale:       staleWarnMinutes > 0 && output.AgeMinutes > staleWarnMinutes,
	}

	if output.Recommendation.Advisory != nil {
		resp.Advisory = toAdvisoryResponse(output.Recommendation.Advisory)
		resp.AdvisoryAvailable = true
	}
	if output.AdvisoryError != nil {
		resp.AdvisoryCode = string(output.AdvisoryError.Code)
		resp.AdvisoryRetryable = output.AdvisoryError.Retryable
	}

	return resp
}

func toAdvisoryResponse(report *entity.AdvisoryReport) *AdvisoryResponse {
	return &AdvisoryResponse{
		DebtStrategy:  report.DebtStrategy,
		Warnings:      report.Warnings,
		Opportunities: report.Opportunities,
	}
}
