package controller

type UserSignUpRequest struct {
	Email    string `json:"email" validate:"required,email" example:"jperez@unap.edu.pe"`
	Password string `json:"password" validate:"required,min=6" example:"SuperPassword123"`
}

type UserSignInRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=50" example:"jperez"`
	Email    string `json:"email,omitempty" validate:"omitempty,email" example:"jperez@unap.edu.pe"`
	Password string `json:"password" validate:"required" example:"SuperPassword123"`
}
