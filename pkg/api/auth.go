package api

type RegisterRequest struct {
	Email       string `json:"email" validate:"nonblank,email"`
	DisplayName string `json:"displayName" validate:"nonblank"`
	Password    string `json:"password" validate:"required"`
}

func (r *RegisterRequest) Validate() error { return check(r) }

type RegisterResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"nonblank"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error { return check(r) }

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type GetCurrentUserRequest struct{}

func (r *GetCurrentUserRequest) Validate() error { return nil }

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
