package dto

type MfaSetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
}

type MfaCodeInput struct {
	TotpCode string `json:"totp_code"`
}
