package model

// UserModel mirrors the 'users' table created by the goose migrations.
// Username and email carry UNIQUE constraints so concurrent registrations cannot both succeed.
type UserModel struct {
	UserID         int64  `gorm:"column:user_id;primaryKey;autoIncrement"`
	Username       string `gorm:"column:username;type:varchar(100);uniqueIndex;not null"`
	Password       string `gorm:"column:password;type:varchar(255);not null"`
	Email          string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	FirstName      string `gorm:"column:first_name;type:varchar(100);not null;default:''"`
	LastName       string `gorm:"column:last_name;type:varchar(100);not null;default:''"`
	ProfilePicture string `gorm:"column:profile_picture;type:text;not null;default:''"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
