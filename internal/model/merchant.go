package model

import (
	"fmt"
	"strings"
)

// MerchantStatus is the operational state of a merchant account.
type MerchantStatus string

const (
	// StatusActive means the merchant is processing payments.
	StatusActive MerchantStatus = "active"
	// StatusPaused means processing is temporarily halted.
	StatusPaused MerchantStatus = "paused"
	// StatusBlocked means the merchant has been shut off.
	StatusBlocked MerchantStatus = "blocked"
)

// RiskLevel is the risk classification assigned to a merchant.
type RiskLevel string

const (
	// RiskLow is the default classification for healthy merchants.
	RiskLow RiskLevel = "low"
	// RiskMedium flags merchants that need periodic review.
	RiskMedium RiskLevel = "medium"
	// RiskHigh flags merchants whose activation requires confirmation.
	RiskHigh RiskLevel = "high"
)

// AllStatuses lists every merchant status in display order.
var AllStatuses = []MerchantStatus{StatusActive, StatusPaused, StatusBlocked}

// AllRiskLevels lists every risk level in display order.
var AllRiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// Valid reports whether s is a known status.
func (s MerchantStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusBlocked:
		return true
	}
	return false
}

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// ParseStatus converts user input into a MerchantStatus.
func ParseStatus(s string) (MerchantStatus, error) {
	status := MerchantStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown merchant status %q", s)
	}
	return status, nil
}

// ParseRiskLevel converts user input into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	risk := RiskLevel(strings.ToLower(strings.TrimSpace(s)))
	if !risk.Valid() {
		return "", fmt.Errorf("unknown risk level %q", s)
	}
	return risk, nil
}

// MonthlyData is one month of processing history used by the dashboard charts.
type MonthlyData struct {
	Month        string  `json:"month" yaml:"month"`
	Volume       float64 `json:"volume" yaml:"volume"`
	SuccessRate  float64 `json:"successRate" yaml:"successRate"`
	Transactions int     `json:"transactions" yaml:"transactions"`
}

// Merchant represents a single merchant account under operations review.
type Merchant struct {
	ID              string         `json:"id" yaml:"id"`
	Name            string         `json:"name" yaml:"name"`
	Country         string         `json:"country" yaml:"country"`
	Status          MerchantStatus `json:"status" yaml:"status"`
	RiskLevel       RiskLevel      `json:"riskLevel" yaml:"riskLevel"`
	LastActivity    string         `json:"lastActivity" yaml:"lastActivity"` // YYYY-MM-DD
	MonthlyData     []MonthlyData  `json:"monthlyData" yaml:"monthlyData"`
	MonthlyVolume   float64        `json:"monthlyVolume" yaml:"monthlyVolume"`
	ChargebackRatio float64        `json:"chargebackRatio" yaml:"chargebackRatio"` // percent, 0-100
	Volume          float64        `json:"volume" yaml:"volume"`
	SuccessRate     float64        `json:"successRate" yaml:"successRate"`
	Transactions    int            `json:"transactions" yaml:"transactions"`
}

// Clone returns a copy that shares no mutable state with m.
func (m Merchant) Clone() Merchant {
	if m.MonthlyData != nil {
		data := make([]MonthlyData, len(m.MonthlyData))
		copy(data, m.MonthlyData)
		m.MonthlyData = data
	}
	return m
}

// IsHazardous reports whether the merchant is active while classified high risk.
func (m Merchant) IsHazardous() bool {
	return m.Status == StatusActive && m.RiskLevel == RiskHigh
}

// MerchantPatch carries a partial update. Nil fields are left untouched.
type MerchantPatch struct {
	Name            *string
	Country         *string
	Status          *MerchantStatus
	RiskLevel       *RiskLevel
	MonthlyVolume   *float64
	ChargebackRatio *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p MerchantPatch) IsEmpty() bool {
	return p.Name == nil && p.Country == nil && p.Status == nil &&
		p.RiskLevel == nil && p.MonthlyVolume == nil && p.ChargebackRatio == nil
}

// Apply merges the patch into m.
func (p MerchantPatch) Apply(m *Merchant) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Country != nil {
		m.Country = *p.Country
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.RiskLevel != nil {
		m.RiskLevel = *p.RiskLevel
	}
	if p.MonthlyVolume != nil {
		m.MonthlyVolume = *p.MonthlyVolume
	}
	if p.ChargebackRatio != nil {
		m.ChargebackRatio = *p.ChargebackRatio
	}
}
