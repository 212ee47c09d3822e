package dto

// ValidateReferenceRequest asks for provider-specific reference validation.
type ValidateReferenceRequest struct {
	ProviderCode      string `json:"providerCode" binding:"required,providercode"`
	Reference         string `json:"reference" binding:"required"`
	VerificationDigit string `json:"verificationDigit"`
}

// ValidateReferenceResponse mirrors the checksum validator result.
type ValidateReferenceResponse struct {
	Valid         bool   `json:"valid"`
	RequiresDigit bool   `json:"requiresDigit"`
	Reason        string `json:"reason,omitempty"`
}
