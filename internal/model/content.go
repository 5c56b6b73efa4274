package model

import "time"

// swagger:model Project
type Project struct {
	BaseModel
	Title      string `gorm:"size:200;not null" json:"title"`
	Slug       string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Client     string `gorm:"size:150" json:"client"`
	Summary    string `gorm:"type:text" json:"summary"`
	Body       string `gorm:"type:longtext" json:"body"`
	CoverImage string `gorm:"size:500" json:"coverImage"`
	Tags       string `gorm:"size:255" json:"tags"`
	SortOrder  int    `gorm:"default:0" json:"sortOrder"`
	Published  bool   `gorm:"default:false;index" json:"published"`
}

func (Project) TableName() string {
	return "projects"
}

// swagger:model BlogPost
type BlogPost struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Slug        string     `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Excerpt     string     `gorm:"type:text" json:"excerpt"`
	Body        string     `gorm:"type:longtext" json:"body"`
	CoverImage  string     `gorm:"size:500" json:"coverImage"`
	Author      string     `gorm:"size:100" json:"author"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

// swagger:model Service
type Service struct {
	BaseModel
	Title     string `gorm:"size:200;not null" json:"title"`
	Slug      string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Summary   string `gorm:"type:text" json:"summary"`
	Body      string `gorm:"type:longtext" json:"body"`
	Icon      string `gorm:"size:100" json:"icon"`
	PriceFrom int    `gorm:"default:0" json:"priceFrom"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`
	Published bool   `gorm:"default:false;index" json:"published"`
}

func (Service) TableName() string {
	return "services"
}
