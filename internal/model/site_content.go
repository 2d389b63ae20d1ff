package model

// Site content keys.
const (
	ContentAbout    = "about"
	ContentHomepage = "homepage"
)

// SiteContent an editable singleton text block, table site_contents, one row per key.
type SiteContent struct {
	Key          string      `gorm:"type:varchar(32);primaryKey"       json:"-"`
	HeroTitle    string      `gorm:"type:varchar(300)"                 json:"hero_title,omitempty"`
	HeroSubtitle string      `gorm:"type:varchar(500)"                 json:"hero_subtitle,omitempty"`
	Content      string      `gorm:"type:text;not null;default:''"     json:"content"`
	Photos       StringArray `gorm:"type:text[];not null;default:'{}'" json:"photos"`
	BaseModel
}

// TableName site_contents
func (SiteContent) TableName() string { return "site_contents" }
