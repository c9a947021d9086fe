package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type signUpRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    int64  `json:"id"    example:"1"`
	Email string `json:"email" example:"a@x.com"`
}

type logoutResponse struct {
	Success bool `json:"success" example:"true"`
}

// --- Notes ---

type createNoteRequest struct {
	Body string `json:"body" validate:"required"`
}

type noteResponse struct {
	ID        int64  `json:"id"        example:"1"`
	Body      string `json:"body"      example:"hello"`
	AuthorID  int64  `json:"authorId"  example:"1"`
	CreatedAt string `json:"createdAt" example:"2026-01-02T15:04:05Z"`
	UpdatedAt string `json:"updatedAt" example:"2026-01-02T15:04:05Z"`
}
