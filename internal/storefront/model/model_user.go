package model

// User is a platform account. Store customers are not users; only staff and
// owners of organizations authenticate here.
type User struct {
	BaseModel
	UserId          string `gorm:"column:user_id;not null;uniqueIndex" json:"userId"`
	Username        string `gorm:"column:username;not null" json:"username"`
	Email           string `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Password        string `gorm:"column:password;not null" json:"-"`
	IsPlatformAdmin int    `gorm:"column:is_platform_admin;not null;default:0" json:"isPlatformAdmin"`
}

func (User) TableName() string {
	return "t_user"
}

// RegisterUserReq request for registering a user
type RegisterUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUserReq request for logging in
type LoginUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
