package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
	domainerror "github.com/richie-crm/planning-backend/internal/domain/error"
)

// CRMProfileProvider fetches household financial profiles from the CRM API.
// The CRM owns this data; the planning backend only reads snapshots.
type CRMProfileProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewCRMProfileProvider creates a new CRM profile provider instance.
func NewCRMProfileProvider(baseURL, apiKey string, timeout time.Duration) *CRMProfileProvider {
	return &CRMProfileProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// profilePayload mirrors the CRM's financial-profile resource.
type profilePayload struct {
	RiskTolerance        string  `json:"risk_tolerance"`
	TotalMonthlyIncome   float64 `json:"total_monthly_income"`
	TotalMonthlyExpenses float64 `json:"total_monthly_expenses"`
	MonthlyEMI           float64 `json:"monthly_emi"`
}

// FindByClientID retrieves the profile for a client from the CRM.
func (p *CRMProfileProvider) FindByClientID(ctx context.Context, clientID uuid.UUID) (*entity.ClientProfile, error) {
	url := fmt.Sprintf("%s/api/clients/%s/financial-profile", p.baseURL, clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build CRM request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CRM request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domainerror.NewPlanningError(
			domainerror.ErrCodeClientNotFound,
			"client "+clientID.String()+" has no financial profile",
			domainerror.ErrClientNotFound,
		)
	default:
		return nil, fmt.Errorf("CRM returned unexpected status %d", resp.StatusCode)
	}

	var payload profilePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode CRM profile: %w", err)
	}

	risk := entity.RiskTolerance(payload.RiskTolerance)
	if !risk.IsValid() {
		return nil, domainerror.NewPlanningError(
			domainerror.ErrCodeInvalidRiskTolerance,
			"CRM profile carries unknown risk tolerance "+payload.RiskTolerance,
			domainerror.ErrInvalidRiskTolerance,
		)
	}

	return &entity.ClientProfile{
		ClientID:             clientID,
		RiskTolerance:        risk,
		TotalMonthlyIncome:   payload.TotalMonthlyIncome,
		TotalMonthlyExpenses: payload.TotalMonthlyExpenses,
		MonthlyEMI:           payload.MonthlyEMI,
	}, nil
}
