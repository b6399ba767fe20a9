package dto

// ===== Common responses =====

type APIError struct {
	Error string `json:"error" example:"please fill in all required fields"`
}

type APISuccessString struct {
	Data string `json:"data" example:"ok"`
}

type APISuccessSession struct {
	Data SessionResponse `json:"data"`
}

type APISuccessApplication struct {
	Data ApplicationResponse `json:"data"`
}

type APISuccessPage struct {
	Data PageResponse `json:"data"`
}

type APISuccessDetail struct {
	Data ApplicantDetail `json:"data"`
}
