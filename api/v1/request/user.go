package request

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	Nickname        string `json:"nickname" binding:"omitempty,max=100"`
	ServiceAgreed   bool   `json:"service_agreed" binding:"eq=true"`
	PrivacyAgreed   bool   `json:"privacy_agreed" binding:"eq=true"`
	MarketingAgreed bool   `json:"marketing_agreed"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
