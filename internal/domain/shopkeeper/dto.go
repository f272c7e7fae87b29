// internal/domain/shopkeeper/dto.go
package shopkeeper

type RegisterRequest struct {
	ShopName        string `json:"shop_name" binding:"required,max=255"`
	OwnerName       string `json:"owner_name" binding:"required,max=255"`
	Phone           string `json:"phone" binding:"required"`
	Email           string `json:"email" binding:"omitempty,email,max=255"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Shopkeeper  *Shopkeeper `json:"shopkeeper"`
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
}
