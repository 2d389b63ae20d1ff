package model

// Member a club account, table users.
type Member struct {
	ID           string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username     string      `gorm:"type:varchar(100);not null;default:''"          json:"username"`
	Email        string      `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string      `gorm:"type:varchar(255);not null;default:''"          json:"-"`
	Name         string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Surname      string      `gorm:"type:varchar(100);not null"                     json:"surname"`
	Phone        string      `gorm:"type:varchar(50)"                               json:"phone,omitempty"`
	BirthDate    string      `gorm:"type:varchar(20)"                               json:"birth_date,omitempty"`
	Address      string      `gorm:"type:text"                                      json:"address,omitempty"`
	Workplace    string      `gorm:"type:varchar(200)"                              json:"workplace,omitempty"`
	JobTitle     string      `gorm:"type:varchar(200)"                              json:"job_title,omitempty"`
	Hobbies      string      `gorm:"type:text"                                      json:"hobbies,omitempty"`
	Skills       string      `gorm:"type:text"                                      json:"skills,omitempty"`
	Height       string      `gorm:"type:varchar(20)"                               json:"height,omitempty"`
	Weight       string      `gorm:"type:varchar(20)"                               json:"weight,omitempty"`
	ProfilePhoto string      `gorm:"type:varchar(500)"                              json:"profile_photo,omitempty"`
	Projects     StringArray `gorm:"type:text[];not null;default:'{}'"              json:"projects"`
	BoardMember  string      `gorm:"type:varchar(200)"                              json:"board_member,omitempty"`
	IsAdmin      bool        `gorm:"not null;default:false"                         json:"is_admin"`
	IsApproved   bool        `gorm:"not null;default:false"                         json:"is_approved"`
	BaseModel
}

// TableName users
func (Member) TableName() string { return "users" }
