package payment

type CreatePaymentIntentRequest struct {
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	Program string `json:"program" binding:"required,notblank,oneof=youth highschool"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
	Program         string `json:"program"`
}
