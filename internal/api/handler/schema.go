package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=2,max=32"`
	PIN      string `json:"pin"      validate:"required,min=4,max=64"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	PIN      string `json:"pin"      validate:"required"`
}

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Streak   int    `json:"streak"`
	VIP      bool   `json:"vip"`
}

type chatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type chatResponse struct {
	Kind  string `json:"kind"`
	Reply string `json:"reply"`
}

type checkinResponse struct {
	Streak    int  `json:"streak"`
	Reset     bool `json:"reset"`
	CheckedIn bool `json:"checked_in"`
}

type unlockRequest struct {
	Code string `json:"code" validate:"required"`
}

type unlockResponse struct {
	VIP bool `json:"vip"`
}

type sosResponse struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}
