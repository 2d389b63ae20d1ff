package model

// Leader a leadership roster entry, table leadership.
type Leader struct {
	ID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string `gorm:"type:varchar(200);not null"                     json:"name"`
	Position  string `gorm:"type:varchar(200);not null"                     json:"position"`
	Photo     string `gorm:"type:varchar(500)"                              json:"photo,omitempty"`
	SortOrder int    `gorm:"not null;default:0"                             json:"order"`
	BaseModel
}

// TableName leadership
func (Leader) TableName() string { return "leadership" }
